package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/sydneykevadiya/groundnut-backend/internal/kv"
	"github.com/sydneykevadiya/groundnut-backend/internal/logger"
	"github.com/sydneykevadiya/groundnut-backend/internal/pkg/apperror"
	"github.com/sydneykevadiya/groundnut-backend/internal/repository"
	"github.com/sydneykevadiya/groundnut-backend/internal/validation"
)

// Типы кодов подтверждения.
const (
	OTPTypePhone = "phone"
	OTPTypeEmail = "email"
)

// otpTTL — время жизни одноразового кода.
const otpTTL = 10 * time.Minute

// OtpService выдаёт и проверяет одноразовые коды подтверждения
// телефона/email и восстановления пароля. Отправки SMS/email здесь нет:
// код пишется в лог, доставкой занимается внешний шлюз.
type OtpService struct {
	auth     *repository.AuthRepository
	profiles *repository.ProfileRepository
}

func NewOtpService(auth *repository.AuthRepository, profiles *repository.ProfileRepository) *OtpService {
	return &OtpService{auth: auth, profiles: profiles}
}

// SendVerification генерирует код подтверждения телефона или email.
func (s *OtpService) SendVerification(ctx context.Context, userID uuid.UUID, codeType string) error {
	if codeType != OTPTypePhone && codeType != OTPTypeEmail {
		return apperror.New(apperror.ErrCodeInvalidInput, "неизвестный тип кода подтверждения")
	}

	code, err := generateCode()
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось сгенерировать код")
	}

	record := &repository.OTPRecord{Code: code, CreatedAt: time.Now()}
	if err := s.auth.SaveOTP(ctx, codeType, userID, record); err != nil {
		return err
	}

	// TODO: подключить SMS/email шлюз вместо записи в лог.
	logger.WithComponent("otp_service").WithField("user_id", userID).
		Infof("код подтверждения (%s): %s", codeType, code)
	return nil
}

// VerifyOTP проверяет код и помечает телефон/email фермера подтверждённым.
// Просроченный или неверный код — INVALID_INPUT; использованный код удаляется.
func (s *OtpService) VerifyOTP(ctx context.Context, userID uuid.UUID, codeType, code string) error {
	record, err := s.auth.GetOTP(ctx, codeType, userID)
	if errors.Is(err, kv.ErrKeyNotFound) {
		return apperror.New(apperror.ErrCodeInvalidInput, "код не найден или уже использован")
	}
	if err != nil {
		return err
	}

	if time.Since(record.CreatedAt) > otpTTL {
		_ = s.auth.DeleteOTP(ctx, codeType, userID)
		return apperror.New(apperror.ErrCodeInvalidInput, "срок действия кода истёк")
	}
	if record.Code != code {
		return apperror.New(apperror.ErrCodeInvalidInput, "неверный код")
	}

	if err := s.auth.DeleteOTP(ctx, codeType, userID); err != nil {
		return err
	}

	// Флаги подтверждения есть только у фермеров.
	farmer, err := s.profiles.GetFarmer(ctx, userID)
	if err != nil {
		return nil
	}
	switch codeType {
	case OTPTypePhone:
		farmer.PhoneVerified = true
	case OTPTypeEmail:
		farmer.EmailVerified = true
	}
	return s.profiles.SaveFarmer(ctx, farmer)
}

// SendResetOTP генерирует код восстановления пароля по идентификатору
// (email или телефон). Ответ одинаков и для существующего, и для
// несуществующего пользователя: перечисление аккаунтов невозможно.
func (s *OtpService) SendResetOTP(ctx context.Context, identifier string) error {
	if identifier == "" {
		return apperror.New(apperror.ErrCodeInvalidInput, "идентификатор обязателен")
	}

	if _, err := s.findUserByIdentifier(ctx, identifier); err != nil {
		logger.WithComponent("otp_service").Debugf("запрос сброса для неизвестного идентификатора")
		return nil
	}

	code, err := generateCode()
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось сгенерировать код")
	}

	record := &repository.OTPRecord{Code: code, CreatedAt: time.Now()}
	if err := s.auth.SaveResetOTP(ctx, identifier, record); err != nil {
		return err
	}

	logger.WithComponent("otp_service").Infof("код восстановления пароля: %s", code)
	return nil
}

// VerifyResetOTP проверяет код восстановления, не расходуя его.
func (s *OtpService) VerifyResetOTP(ctx context.Context, identifier, code string) error {
	record, err := s.auth.GetResetOTP(ctx, identifier)
	if errors.Is(err, kv.ErrKeyNotFound) {
		return apperror.New(apperror.ErrCodeInvalidInput, "код не найден или уже использован")
	}
	if err != nil {
		return err
	}

	if time.Since(record.CreatedAt) > otpTTL {
		_ = s.auth.DeleteResetOTP(ctx, identifier)
		return apperror.New(apperror.ErrCodeInvalidInput, "срок действия кода истёк")
	}
	if record.Code != code {
		return apperror.New(apperror.ErrCodeInvalidInput, "неверный код")
	}
	return nil
}

// ResetPassword проверяет код, меняет пароль и расходует код.
// Требования к новому паролю те же, что и при регистрации.
func (s *OtpService) ResetPassword(ctx context.Context, identifier, code, newPassword string) error {
	if err := validation.ValidatePassword(newPassword); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInvalidInput, err.Error())
	}
	if err := s.VerifyResetOTP(ctx, identifier, code); err != nil {
		return err
	}

	email, err := s.findUserByIdentifier(ctx, identifier)
	if err != nil {
		return apperror.New(apperror.ErrCodeInvalidInput, "пользователь не найден")
	}

	cred, err := s.auth.GetCredentials(ctx, email)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось захешировать пароль")
	}
	cred.PasswordHash = string(hash)

	if err := s.auth.SaveCredentials(ctx, cred); err != nil {
		return err
	}
	return s.auth.DeleteResetOTP(ctx, identifier)
}

// findUserByIdentifier ищет email учётной записи по email или телефону.
// Поиск по телефону перебирает профили: пользователей немного, отдельный
// индекс телефонов не заводится.
func (s *OtpService) findUserByIdentifier(ctx context.Context, identifier string) (string, error) {
	if _, err := s.auth.GetCredentials(ctx, normalizeEmail(identifier)); err == nil {
		return normalizeEmail(identifier), nil
	}

	farmers, err := s.profiles.ListFarmers(ctx)
	if err != nil {
		return "", err
	}
	for _, f := range farmers {
		if f.Phone == identifier {
			return f.Email, nil
		}
	}

	companies, err := s.profiles.ListCompanies(ctx)
	if err != nil {
		return "", err
	}
	for _, c := range companies {
		if c.Phone == identifier {
			return c.Email, nil
		}
	}

	return "", apperror.ErrProfileNotFound
}

// generateCode возвращает криптослучайный 6-значный код.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
