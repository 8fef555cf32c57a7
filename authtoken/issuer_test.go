package authtoken

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/zarvd/tokencipher/encryptor"
	"github.com/zarvd/tokencipher/internal/key/keytest"
)

func newSymmetric(t *testing.T) encryptor.Encryptor {
	t.Helper()

	key, err := encryptor.FlexKey(encryptor.AES128CBC, []byte("thisisaverysecurekey1234"))
	require.NoError(t, err)
	enc, err := encryptor.NewSymmetric(encryptor.SymmetricConfig{
		Suite: encryptor.AES128CBC,
		Key:   key,
		IV:    []byte("1234567890123456"),
	})
	require.NoError(t, err)
	return enc
}

func newAsymmetric(t *testing.T) encryptor.Encryptor {
	t.Helper()

	pems := keytest.GenerateRSA(t, 2048)
	enc, err := encryptor.NewAsymmetric(encryptor.KeyPair{PublicKey: pems.Public, PrivateKey: pems.Private})
	require.NoError(t, err)
	return enc
}

func claimsAt(now time.Time) Claims {
	return NewClaims("example.org", "example.com", now)
}

func TestIssuer_IssueAndVerify(t *testing.T) {
	t.Parallel()

	backends := map[string]func(*testing.T) encryptor.Encryptor{
		"symmetric":  newSymmetric,
		"asymmetric": newAsymmetric,
	}
	for name, newEnc := range backends {
		newEnc := newEnc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			now := time.Now()
			issuer := NewIssuer(zaptest.NewLogger(t), newEnc(t), claimsAt(now))

			token, err := issuer.Issue("1")
			require.NoError(t, err)
			require.NotEmpty(t, token)

			env, ok, err := issuer.Verify(token)
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, "1", env.ID)
			require.EqualValues(t, 3600, env.Expire)
			require.Equal(t, claimsAt(now), env.Payload)
		})
	}
}

func TestIssuer_Expired(t *testing.T) {
	t.Parallel()

	backends := map[string]func(*testing.T) encryptor.Encryptor{
		"symmetric":  newSymmetric,
		"asymmetric": newAsymmetric,
	}
	for name, newEnc := range backends {
		newEnc := newEnc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			now := time.Now()
			claims := claimsAt(now)
			claims.NotBefore = now.Unix() - 3610

			issuer := NewIssuer(zaptest.NewLogger(t), newEnc(t), claims)
			token, err := issuer.Issue("1")
			require.NoError(t, err)

			env, ok, err := issuer.Verify(token)
			require.NoError(t, err)
			require.False(t, ok)
			require.Nil(t, env)
		})
	}
}

func TestIssuer_ExpiryBoundary(t *testing.T) {
	t.Parallel()

	nbf := time.Unix(1_700_000_000, 0)
	var (
		mu  sync.Mutex
		now time.Time
	)
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	setNow := func(t time.Time) {
		mu.Lock()
		defer mu.Unlock()
		now = t
	}

	claims := claimsAt(nbf)
	// Issued long after NotBefore, expiry still counts from NotBefore.
	claims.IssuedAt = nbf.Add(30 * time.Minute).Unix()
	issuer := NewIssuer(zaptest.NewLogger(t), newSymmetric(t), claims, WithClock(clock))

	token, err := issuer.IssueFor("subject", 10*time.Second+900*time.Millisecond)
	require.NoError(t, err)

	setNow(nbf.Add(9 * time.Second))
	env, ok, err := issuer.Verify(token)
	require.NoError(t, err)
	require.True(t, ok)
	require.EqualValues(t, 10, env.Expire)
	require.Equal(t, nbf.Add(10*time.Second), env.ExpiresAt())

	setNow(nbf.Add(10 * time.Second))
	_, ok, err = issuer.Verify(token)
	require.NoError(t, err)
	require.False(t, ok)

	setNow(nbf.Add(-time.Hour))
	_, ok, err = issuer.Verify(token)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestIssuer_IssueWithClaims(t *testing.T) {
	t.Parallel()

	now := time.Now()
	issuer := NewIssuer(nil, newSymmetric(t), claimsAt(now))

	custom := Claims{Issuer: "other.org", Audience: "other.com", IssuedAt: now.Unix(), NotBefore: now.Unix()}
	token, err := issuer.IssueWithClaims("42", 5*time.Minute, custom)
	require.NoError(t, err)

	env, ok, err := issuer.Verify(token)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "42", env.ID)
	require.EqualValues(t, 300, env.Expire)
	require.Equal(t, custom, env.Payload)
	require.Equal(t, claimsAt(now), issuer.Claims())
}

func TestIssuer_YAMLSerializer(t *testing.T) {
	t.Parallel()

	now := time.Now()
	enc := newSymmetric(t)
	issuer := NewIssuer(zaptest.NewLogger(t), enc, claimsAt(now), WithSerializer(YAML{}))

	token, err := issuer.Issue("yaml-subject")
	require.NoError(t, err)

	env, ok, err := issuer.Verify(token)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "yaml-subject", env.ID)

	// A JSON issuer sharing the key cannot read YAML envelopes.
	jsonIssuer := NewIssuer(zaptest.NewLogger(t), enc, claimsAt(now))
	_, ok, err = jsonIssuer.Verify(token)
	require.ErrorIs(t, err, ErrMalformedToken)
	require.False(t, ok)
}

func TestIssuer_VerifyErrors(t *testing.T) {
	t.Parallel()

	enc := newSymmetric(t)
	issuer := NewIssuer(zaptest.NewLogger(t), enc, claimsAt(time.Now()))

	t.Run("foreign token", func(t *testing.T) {
		t.Parallel()

		env, ok, err := issuer.Verify("test")
		require.ErrorIs(t, err, encryptor.ErrDecryptionFailed)
		require.NotErrorIs(t, err, ErrMalformedToken)
		require.False(t, ok)
		require.Nil(t, env)
	})

	t.Run("not an envelope", func(t *testing.T) {
		t.Parallel()

		token, err := enc.Encrypt([]byte("Hello, OpenSSL!"))
		require.NoError(t, err)

		_, ok, err := issuer.Verify(token)
		require.ErrorIs(t, err, ErrMalformedToken)
		require.False(t, ok)
	})

	t.Run("unknown fields", func(t *testing.T) {
		t.Parallel()

		token, err := enc.Encrypt([]byte(`{"id":"1","expire":3600,"payload":{},"admin":true}`))
		require.NoError(t, err)

		_, _, err = issuer.Verify(token)
		require.ErrorIs(t, err, ErrMalformedToken)
	})

	t.Run("incomplete envelope", func(t *testing.T) {
		t.Parallel()

		for _, body := range []string{
			`null`,
			`{}`,
			`{"id":"1"}`,
			`{"id":"1","expire":3600}`,
			`{"id":"1","expire":3600,"payload":{"iss":"example.org","aud":"example.com","iat":10}}`,
		} {
			token, err := enc.Encrypt([]byte(body))
			require.NoError(t, err)

			env, ok, err := issuer.Verify(token)
			require.ErrorIs(t, err, ErrMalformedToken, body)
			require.False(t, ok, body)
			require.Nil(t, env, body)
		}
	})

	t.Run("unsupported algorithm", func(t *testing.T) {
		t.Parallel()

		broken := NewIssuer(zaptest.NewLogger(t), &encryptor.Symmetric{}, claimsAt(time.Now()))
		_, err := broken.Issue("1")
		require.ErrorIs(t, err, encryptor.ErrUnsupportedAlgorithm)

		_, _, err = broken.Verify("test")
		require.ErrorIs(t, err, encryptor.ErrUnsupportedAlgorithm)
	})
}

func TestIssuer_Logging(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	now := time.Now()
	claims := claimsAt(now)
	claims.NotBefore = now.Unix() - 3610
	issuer := NewIssuer(zap.New(core), newSymmetric(t), claims)

	token, err := issuer.Issue("1")
	require.NoError(t, err)
	_, ok, err := issuer.Verify(token)
	require.NoError(t, err)
	require.False(t, ok)

	require.Equal(t, 1, logs.FilterMessage("issued token").Len())
	expired := logs.FilterMessage("token expired").All()
	require.Len(t, expired, 1)
	require.Equal(t, "1", expired[0].ContextMap()["id"])
	require.Equal(t, "Verify", expired[0].ContextMap()["method"])
	for _, entry := range logs.All() {
		for _, value := range entry.ContextMap() {
			require.NotEqual(t, token, value)
		}
	}
}

func TestIssuer_Concurrent(t *testing.T) {
	t.Parallel()

	issuer := NewIssuer(zaptest.NewLogger(t), newSymmetric(t), claimsAt(time.Now()))

	var wg sync.WaitGroup
	results := make(chan *Envelope, 16)
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			token, err := issuer.Issue("1")
			if err != nil {
				errs <- err
				return
			}
			env, _, err := issuer.Verify(token)
			if err != nil {
				errs <- err
				return
			}
			results <- env
		}()
	}
	wg.Wait()
	close(results)
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	require.Len(t, results, 16)
	for env := range results {
		require.NotNil(t, env)
		require.Equal(t, "1", env.ID)
	}
}
