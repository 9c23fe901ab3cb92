package crypto

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func newTestCipher(t *testing.T) *aesFieldCipher {
	cipher, err := NewAESFieldCipherWithKey(testKey)
	require.NoError(t, err)

	return cipher.(*aesFieldCipher)
}

func TestAESFieldCipher_RoundTrip(t *testing.T) {
	cipher := newTestCipher(t)

	for _, plaintext := range []string{
		"buy groceries",
		"",
		"line one\nline two",
		"unicode: 試してみる",
	} {
		encoded, err := cipher.Encrypt(plaintext)
		require.NoError(t, err)

		decrypted, err := cipher.Decrypt(encoded)
		require.NoError(t, err)
		assert.Equal(t, plaintext, decrypted)
	}
}

func TestAESFieldCipher_EncodingShape(t *testing.T) {
	cipher := newTestCipher(t)

	encoded, err := cipher.Encrypt("secret")
	require.NoError(t, err)

	parts := strings.Split(encoded, ":")
	require.Len(t, parts, 3)
	assert.Len(t, parts[0], ivSize*2)  // hex doubles the byte length
	assert.Len(t, parts[2], tagSize*2)
}

func TestAESFieldCipher_FreshIVPerCall(t *testing.T) {
	cipher := newTestCipher(t)

	first, err := cipher.Encrypt("same plaintext")
	require.NoError(t, err)
	second, err := cipher.Encrypt("same plaintext")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.NotEqual(t, strings.Split(first, ":")[0], strings.Split(second, ":")[0])
}

func TestAESFieldCipher_RejectsMalformedEncoding(t *testing.T) {
	cipher := newTestCipher(t)

	valid, err := cipher.Encrypt("secret")
	require.NoError(t, err)
	parts := strings.Split(valid, ":")

	cases := map[string]string{
		"empty":             "",
		"no separators":     "deadbeef",
		"two segments":      parts[0] + ":" + parts[1],
		"four segments":     valid + ":00",
		"non-hex iv":        "zz:" + parts[1] + ":" + parts[2],
		"short iv":          "dead:" + parts[1] + ":" + parts[2],
		"non-hex body":      parts[0] + ":zz:" + parts[2],
		"short tag":         parts[0] + ":" + parts[1] + ":dead",
	}

	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := cipher.Decrypt(input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrCiphertextFormat))
			assert.False(t, errors.Is(err, ErrDecryptionFailed))
		})
	}
}

func TestAESFieldCipher_RejectsTamperedCiphertext(t *testing.T) {
	cipher := newTestCipher(t)

	encoded, err := cipher.Encrypt("original content")
	require.NoError(t, err)

	parts := strings.Split(encoded, ":")
	flipped := flipFirstHexDigit(parts[1])
	tampered := parts[0] + ":" + flipped + ":" + parts[2]

	_, err = cipher.Decrypt(tampered)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDecryptionFailed))
	assert.False(t, errors.Is(err, ErrCiphertextFormat))
}

func TestAESFieldCipher_RejectsWrongKey(t *testing.T) {
	cipher := newTestCipher(t)
	encoded, err := cipher.Encrypt("secret under key A")
	require.NoError(t, err)

	other, err := NewAESFieldCipherWithKey([]byte("fedcba9876543210fedcba9876543210"))
	require.NoError(t, err)

	_, err = other.Decrypt(encoded)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDecryptionFailed))
}

func TestNewAESFieldCipherWithKey_RejectsBadKeyLength(t *testing.T) {
	for _, size := range []int{0, 16, 24, 31, 33, 64} {
		_, err := NewAESFieldCipherWithKey(make([]byte, size))
		assert.Error(t, err, "key length %d must be rejected", size)
	}
}

func flipFirstHexDigit(s string) string {
	if s == "" {
		return s
	}
	replacement := "0"
	if s[0] == '0' {
		replacement = "1"
	}

	return replacement + s[1:]
}
