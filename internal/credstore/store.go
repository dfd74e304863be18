// Package credstore persists the signed-in session: the bearer token and the
// user identity it belongs to. The token is encrypted at rest with a key
// kept next to the local database. The store is handed to collaborators as a
// capability; nothing reads session state from a global.
package credstore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	dbmodel "devevent/cli/internal/db"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	cfgKeySessionTokenEnc = "session_token_enc"
	cfgKeySessionUserID   = "session_user_id"
	cfgKeySessionName     = "session_name"
	cfgKeySessionEmail    = "session_email"
	secretKeySize         = 32
)

// Session is the locally persisted identity. An empty Token means anonymous.
type Session struct {
	Token  string
	UserID string
	Name   string
	Email  string
}

func (s Session) Anonymous() bool { return strings.TrimSpace(s.Token) == "" }

type Store struct {
	db  *gorm.DB
	key []byte
}

// NewStore uses the shared local DB. Caller must not close the db.
func NewStore(db *gorm.DB, secretPath string) (*Store, error) {
	if db == nil {
		return nil, errors.New("db is required")
	}
	key, err := loadOrCreateSecretKey(secretPath)
	if err != nil {
		return nil, err
	}
	return &Store{db: db, key: key}, nil
}

// Token implements remoteapi.TokenSource.
func (s *Store) Token() (string, error) {
	sess, err := s.Load()
	if err != nil {
		return "", err
	}
	return sess.Token, nil
}

func (s *Store) Save(sess Session) error {
	if s == nil || s.db == nil {
		return errors.New("credentials store is not initialized")
	}
	enc, err := encryptToken(sess.Token, s.key)
	if err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := upsertValue(tx, cfgKeySessionTokenEnc, enc); err != nil {
			return err
		}
		if err := upsertValue(tx, cfgKeySessionUserID, strings.TrimSpace(sess.UserID)); err != nil {
			return err
		}
		if err := upsertValue(tx, cfgKeySessionName, strings.TrimSpace(sess.Name)); err != nil {
			return err
		}
		return upsertValue(tx, cfgKeySessionEmail, strings.TrimSpace(sess.Email))
	})
}

func (s *Store) Load() (Session, error) {
	if s == nil || s.db == nil {
		return Session{}, errors.New("credentials store is not initialized")
	}
	enc, _ := s.rawValueOptional(cfgKeySessionTokenEnc)
	userID, _ := s.rawValueOptional(cfgKeySessionUserID)
	name, _ := s.rawValueOptional(cfgKeySessionName)
	email, _ := s.rawValueOptional(cfgKeySessionEmail)

	out := Session{UserID: userID, Name: name, Email: email}
	if strings.TrimSpace(enc) == "" {
		return out, nil
	}
	token, err := decryptToken(enc, s.key)
	if err != nil {
		return Session{}, err
	}
	out.Token = token
	return out, nil
}

// Clear signs the user out, removing both token and identity.
func (s *Store) Clear() error {
	if s == nil || s.db == nil {
		return errors.New("credentials store is not initialized")
	}
	keys := []string{cfgKeySessionTokenEnc, cfgKeySessionUserID, cfgKeySessionName, cfgKeySessionEmail}
	return s.db.Where("key IN ?", keys).Delete(&dbmodel.Config{}).Error
}

func (s *Store) rawValueOptional(key string) (string, bool) {
	if s == nil || s.db == nil {
		return "", false
	}
	var row dbmodel.Config
	if err := s.db.Model(&dbmodel.Config{}).Select("value").Where("key = ?", key).Take(&row).Error; err != nil {
		return "", false
	}
	return row.Value, true
}

func upsertValue(tx *gorm.DB, key, value string) error {
	row := dbmodel.Config{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC().Unix(),
	}
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]any{
			"value":      row.Value,
			"updated_at": row.UpdatedAt,
		}),
	}).Create(&row).Error
}

func loadOrCreateSecretKey(secretPath string) ([]byte, error) {
	if err := os.MkdirAll(filepath.Dir(secretPath), 0o755); err != nil {
		return nil, err
	}
	if b, err := os.ReadFile(secretPath); err == nil {
		if len(b) != secretKeySize {
			return nil, fmt.Errorf("invalid session secret size: got %d", len(b))
		}
		return b, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	key := make([]byte, secretKeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, err
	}
	if err := os.WriteFile(secretPath, key, 0o600); err != nil {
		return nil, err
	}
	return key, nil
}

func encryptToken(plain string, key []byte) (string, error) {
	if plain == "" {
		return "", nil
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	ciphertext := gcm.Seal(nil, nonce, []byte(plain), nil)
	combined := append(nonce, ciphertext...)
	return base64.StdEncoding.EncodeToString(combined), nil
}

func decryptToken(enc string, key []byte) (string, error) {
	blob, err := base64.StdEncoding.DecodeString(enc)
	if err != nil {
		return "", err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}
	nonceSize := gcm.NonceSize()
	if len(blob) < nonceSize {
		return "", errors.New("ciphertext too short")
	}
	plain, err := gcm.Open(nil, blob[:nonceSize], blob[nonceSize:], nil)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}
