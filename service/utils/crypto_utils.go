/*
 * @module service/utils/crypto_utils
 * @description 敏感配置加解密工具，负责连接密码等敏感字段的落库加密和Webhook通知签名
 * @architecture 工具层 - 无状态加解密
 * @documentReference ai_docs/quality_check_design.md
 * @stateFlow 明文 -> AES-CFB加密 -> 带前缀密文落库 / 带前缀密文 -> 解密 -> 明文使用
 * @rules 未配置密钥时加解密原样透传；无前缀的存量明文解密时原样返回
 * @dependencies crypto/aes, crypto/cipher, crypto/hmac, crypto/sha256
 * @refs service/connection/connection_service.go, service/notifier/webhook_channel.go
 */

package utils

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// secretPrefix 标记加密后的配置值，解密时据此区分密文和存量明文
const secretPrefix = "enc:v1:"

// SecretCipher 敏感配置加解密器
type SecretCipher struct {
	key []byte // nil 表示未配置密钥，加解密原样透传
}

// NewSecretCipher 创建加解密器，密钥经SHA256派生为32字节（AES-256）
func NewSecretCipher(key string) *SecretCipher {
	if key == "" {
		return &SecretCipher{}
	}

	hasher := sha256.New()
	hasher.Write([]byte(key))
	return &SecretCipher{key: hasher.Sum(nil)}
}

// Enabled 是否配置了加密密钥
func (c *SecretCipher) Enabled() bool {
	return len(c.key) > 0
}

// EncryptSecret 加密敏感配置值
// 空值和已加密的值原样返回，未配置密钥时明文原样返回
func (c *SecretCipher) EncryptSecret(plaintext string) (string, error) {
	if plaintext == "" || !c.Enabled() {
		return plaintext, nil
	}
	if strings.HasPrefix(plaintext, secretPrefix) {
		return plaintext, nil
	}

	encrypted, err := c.aesEncrypt(plaintext)
	if err != nil {
		return "", err
	}
	return secretPrefix + encrypted, nil
}

// DecryptSecret 解密敏感配置值，无前缀的存量明文原样返回
func (c *SecretCipher) DecryptSecret(value string) (string, error) {
	if !strings.HasPrefix(value, secretPrefix) {
		return value, nil
	}
	if !c.Enabled() {
		return "", errors.New("未配置数据加密密钥，无法解密")
	}
	return c.aesDecrypt(strings.TrimPrefix(value, secretPrefix))
}

// aesEncrypt AES-CFB加密，随机IV与密文拼接后base64编码
func (c *SecretCipher) aesEncrypt(plaintext string) (string, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", fmt.Errorf("创建AES块失败: %v", err)
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", fmt.Errorf("生成IV失败: %v", err)
	}

	stream := cipher.NewCFBEncrypter(block, iv)
	ciphertext := make([]byte, len(plaintext))
	stream.XORKeyStream(ciphertext, []byte(plaintext))

	result := append(iv, ciphertext...)
	return base64.StdEncoding.EncodeToString(result), nil
}

// aesDecrypt AES-CFB解密
func (c *SecretCipher) aesDecrypt(encoded string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("解码base64失败: %v", err)
	}

	if len(data) < aes.BlockSize {
		return "", fmt.Errorf("密文长度不足")
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", fmt.Errorf("创建AES块失败: %v", err)
	}

	iv := data[:aes.BlockSize]
	ciphertextData := data[aes.BlockSize:]

	stream := cipher.NewCFBDecrypter(block, iv)
	plaintext := make([]byte, len(ciphertextData))
	stream.XORKeyStream(plaintext, ciphertextData)

	return string(plaintext), nil
}

// 包级默认加解密器，密钥来自环境变量 DATA_ENCRYPTION_KEY
var defaultSecretCipher = NewSecretCipher(os.Getenv("DATA_ENCRYPTION_KEY"))

// SetSecretKey 重设包级加解密器的密钥（用于测试）
func SetSecretKey(key string) {
	defaultSecretCipher = NewSecretCipher(key)
}

// EncryptSecret 使用包级加解密器加密敏感配置值
func EncryptSecret(plaintext string) (string, error) {
	return defaultSecretCipher.EncryptSecret(plaintext)
}

// DecryptSecret 使用包级加解密器解密敏感配置值
func DecryptSecret(value string) (string, error) {
	return defaultSecretCipher.DecryptSecret(value)
}

// HMACSHA256 HMAC-SHA256签名，十六进制编码输出
func HMACSHA256(data, key string) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}
