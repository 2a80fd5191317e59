package store

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/argon2"
)

// Parámetros argon2id para derivar la clave de cifrado de la credencial.
const (
	kdfTime    = 1
	kdfMemory  = 64 * 1024
	kdfThreads = 4
	keyLen     = 32
	saltLen    = 16
)

// CredentialFile guarda el token de sesión cifrado en reposo. La clave se
// deriva con argon2id desde un secreto aleatorio local creado la primera vez
// (archivo 0600). Formato del archivo de credencial: salt || nonce || ciphertext.
type CredentialFile struct {
	path       string
	secretPath string
}

// NewCredentialFile ubica los archivos de credencial y secreto bajo dataDir.
func NewCredentialFile(dataDir string) *CredentialFile {
	return &CredentialFile{
		path:       filepath.Join(dataDir, "credencial.bin"),
		secretPath: filepath.Join(dataDir, "credencial.key"),
	}
}

// Save cifra el token y sobrescribe la credencial persistida.
func (c *CredentialFile) Save(token string) error {
	secret, err := c.ensureSecret()
	if err != nil {
		return err
	}
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return err
	}
	gcm, err := newGCM(secret, salt)
	if err != nil {
		return err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return err
	}
	sealed := gcm.Seal(nil, nonce, []byte(token), nil)
	out := append(append(salt, nonce...), sealed...)
	return os.WriteFile(c.path, out, 0o600)
}

// Load descifra la credencial persistida. Devuelve cadena vacía (sin error)
// si no hay credencial; error si el archivo existe pero es ilegible, en cuyo
// caso el caller la descarta (arranque en frío sin sesión).
func (c *CredentialFile) Load() (string, error) {
	raw, err := os.ReadFile(c.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	secret, err := os.ReadFile(c.secretPath)
	if err != nil {
		return "", fmt.Errorf("credencial: secreto local ilegible: %w", err)
	}
	if len(raw) < saltLen {
		return "", errors.New("credencial: archivo corrupto")
	}
	salt, rest := raw[:saltLen], raw[saltLen:]
	gcm, err := newGCM(secret, salt)
	if err != nil {
		return "", err
	}
	if len(rest) < gcm.NonceSize() {
		return "", errors.New("credencial: archivo corrupto")
	}
	nonce, sealed := rest[:gcm.NonceSize()], rest[gcm.NonceSize():]
	plain, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("credencial: descifrar: %w", err)
	}
	return string(plain), nil
}

// Clear elimina la credencial persistida (el secreto local se conserva).
func (c *CredentialFile) Clear() error {
	err := os.Remove(c.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// ensureSecret lee el secreto local o lo genera la primera vez.
func (c *CredentialFile) ensureSecret() ([]byte, error) {
	secret, err := os.ReadFile(c.secretPath)
	if err == nil && len(secret) > 0 {
		return secret, nil
	}
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	secret = make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, err
	}
	if err := os.WriteFile(c.secretPath, secret, 0o600); err != nil {
		return nil, err
	}
	return secret, nil
}

func newGCM(secret, salt []byte) (cipher.AEAD, error) {
	key := argon2.IDKey(secret, salt, kdfTime, kdfMemory, kdfThreads, keyLen)
	blk, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(blk)
}
