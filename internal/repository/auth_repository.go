package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/sydneykevadiya/groundnut-backend/internal/kv"
	"github.com/sydneykevadiya/groundnut-backend/internal/models"
	"github.com/sydneykevadiya/groundnut-backend/internal/pkg/apperror"
)

// OTPRecord — одноразовый код с временем создания (ключи otp:* и reset-otp:*).
type OTPRecord struct {
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"createdAt"`
}

// AuthRepository хранит учётные данные, refresh-сессии и одноразовые коды.
type AuthRepository struct {
	store kv.Store
}

func NewAuthRepository(store kv.Store) *AuthRepository {
	return &AuthRepository{store: store}
}

// SaveCredentials записывает учётные данные (ключ cred:<email>).
func (r *AuthRepository) SaveCredentials(ctx context.Context, cred *models.Credentials) error {
	return setJSON(ctx, r.store, credentialsKey(cred.Email), cred)
}

// GetCredentials возвращает учётные данные по email.
func (r *AuthRepository) GetCredentials(ctx context.Context, email string) (*models.Credentials, error) {
	var cred models.Credentials
	_, err := getJSON(ctx, r.store, credentialsKey(email), &cred)
	if errors.Is(err, kv.ErrKeyNotFound) {
		return nil, apperror.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	return &cred, nil
}

// DeleteCredentials удаляет учётные данные.
func (r *AuthRepository) DeleteCredentials(ctx context.Context, email string) error {
	return r.store.Delete(ctx, credentialsKey(email))
}

// FindCredentialsByUserID ищет учётные данные по идентификатору пользователя.
// Используется при удалении пользователя администратором, когда email неизвестен.
func (r *AuthRepository) FindCredentialsByUserID(ctx context.Context, userID uuid.UUID) (*models.Credentials, error) {
	entries, err := r.store.GetByPrefix(ctx, prefixCredentials)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		var cred models.Credentials
		if _, err := getJSON(ctx, r.store, entry.Key, &cred); err != nil {
			continue
		}
		if cred.UserID == userID {
			return &cred, nil
		}
	}
	return nil, apperror.ErrProfileNotFound
}

// SaveSession записывает refresh-сессию (ключ session:<jti>).
func (r *AuthRepository) SaveSession(ctx context.Context, jti string, session *models.Session) error {
	return setJSON(ctx, r.store, sessionKey(jti), session)
}

// GetSession возвращает refresh-сессию.
func (r *AuthRepository) GetSession(ctx context.Context, jti string) (*models.Session, error) {
	var session models.Session
	_, err := getJSON(ctx, r.store, sessionKey(jti), &session)
	if errors.Is(err, kv.ErrKeyNotFound) {
		return nil, apperror.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// DeleteSession удаляет refresh-сессию.
func (r *AuthRepository) DeleteSession(ctx context.Context, jti string) error {
	return r.store.Delete(ctx, sessionKey(jti))
}

// SaveOTP записывает одноразовый код подтверждения (otp:<type>:<userID>).
func (r *AuthRepository) SaveOTP(ctx context.Context, codeType string, userID uuid.UUID, record *OTPRecord) error {
	return setJSON(ctx, r.store, otpKey(codeType, userID), record)
}

// GetOTP возвращает одноразовый код или kv.ErrKeyNotFound.
func (r *AuthRepository) GetOTP(ctx context.Context, codeType string, userID uuid.UUID) (*OTPRecord, error) {
	var record OTPRecord
	if _, err := getJSON(ctx, r.store, otpKey(codeType, userID), &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// DeleteOTP удаляет использованный код.
func (r *AuthRepository) DeleteOTP(ctx context.Context, codeType string, userID uuid.UUID) error {
	return r.store.Delete(ctx, otpKey(codeType, userID))
}

// SaveResetOTP записывает код восстановления пароля (reset-otp:<identifier>).
func (r *AuthRepository) SaveResetOTP(ctx context.Context, identifier string, record *OTPRecord) error {
	return setJSON(ctx, r.store, resetOTPKey(identifier), record)
}

// GetResetOTP возвращает код восстановления пароля.
func (r *AuthRepository) GetResetOTP(ctx context.Context, identifier string) (*OTPRecord, error) {
	var record OTPRecord
	if _, err := getJSON(ctx, r.store, resetOTPKey(identifier), &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// DeleteResetOTP удаляет использованный код восстановления.
func (r *AuthRepository) DeleteResetOTP(ctx context.Context, identifier string) error {
	return r.store.Delete(ctx, resetOTPKey(identifier))
}
