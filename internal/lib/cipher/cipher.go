// Package cipher реализует шифрование отдельных текстовых полей
// для хранения в базе данных (AES-256-GCM).
//
// Конверт на диске — три hex-части, разделённые двоеточием:
// nonce:tag:ciphertext. Повреждённый конверт без одной из частей
// расшифровывается в пустую строку, ошибка аутентификации тега —
// в явную ошибку, эти два случая различаются намеренно.
package cipher

import (
	"crypto/aes"
	stdcipher "crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
)

// KeySize — длина ключа в байтах (AES-256).
const KeySize = 32

// tagSize — длина тега аутентификации GCM.
const tagSize = 16

// Cipher шифрует и расшифровывает одно текстовое поле статическим
// ключом процесса. Ключ задаётся один раз при конструировании и
// никогда не выводится per-record.
type Cipher struct {
	aead stdcipher.AEAD
}

// New создаёт Cipher из 32-байтового ключа.
func New(key []byte) (*Cipher, error) {
	const op = "cipher.New"
	if len(key) != KeySize {
		return nil, fmt.Errorf("%s: key must be %d bytes, got %d", op, KeySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	aead, err := stdcipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Cipher{aead: aead}, nil
}

// Encrypt шифрует plaintext свежим 12-байтовым nonce и возвращает
// конверт вида hex(nonce):hex(tag):hex(ciphertext).
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	const op = "cipher.Encrypt"

	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	// Seal возвращает ciphertext с тегом в хвосте, конверт хранит их раздельно.
	sealed := c.aead.Seal(nil, nonce, []byte(plaintext), nil)
	ciphertext := sealed[:len(sealed)-tagSize]
	tag := sealed[len(sealed)-tagSize:]

	return fmt.Sprintf("%s:%s:%s",
		hex.EncodeToString(nonce),
		hex.EncodeToString(tag),
		hex.EncodeToString(ciphertext)), nil
}

// Decrypt разбирает конверт и возвращает исходный текст.
//
// Конверт без одной из трёх частей — легитимный случай (пустое или
// устаревшее поле), возвращается пустая строка без ошибки. Битый hex
// или неверный тег аутентификации означают порчу данных либо смену
// ключа — это единственный путь, где функция возвращает ошибку.
func (c *Cipher) Decrypt(envelope string) (string, error) {
	const op = "cipher.Decrypt"

	parts := strings.Split(envelope, ":")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return "", nil
	}

	nonce, err := hex.DecodeString(parts[0])
	if err != nil {
		return "", fmt.Errorf("%s: malformed nonce: %w", op, err)
	}
	if len(nonce) != c.aead.NonceSize() {
		return "", fmt.Errorf("%s: nonce must be %d bytes, got %d", op, c.aead.NonceSize(), len(nonce))
	}
	tag, err := hex.DecodeString(parts[1])
	if err != nil {
		return "", fmt.Errorf("%s: malformed tag: %w", op, err)
	}
	ciphertext, err := hex.DecodeString(parts[2])
	if err != nil {
		return "", fmt.Errorf("%s: malformed ciphertext: %w", op, err)
	}

	plaintext, err := c.aead.Open(nil, nonce, append(ciphertext, tag...), nil)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(plaintext), nil
}
