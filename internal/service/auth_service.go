package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/sydneykevadiya/groundnut-backend/internal/logger"
	"github.com/sydneykevadiya/groundnut-backend/internal/models"
	"github.com/sydneykevadiya/groundnut-backend/internal/pkg/apperror"
	"github.com/sydneykevadiya/groundnut-backend/internal/repository"
	"github.com/sydneykevadiya/groundnut-backend/internal/validation"
)

// AuthService отвечает за регистрацию, вход и обновление сессий.
type AuthService struct {
	auth     *repository.AuthRepository
	profiles *repository.ProfileRepository
	tokens   *TokenManager
}

func NewAuthService(auth *repository.AuthRepository, profiles *repository.ProfileRepository, tokens *TokenManager) *AuthService {
	return &AuthService{auth: auth, profiles: profiles, tokens: tokens}
}

// RegisterFarmerInput — данные регистрации фермера.
type RegisterFarmerInput struct {
	Email    string
	Password string
	Name     string
	Phone    string
	Aadhaar  string
	Pincode  string
	Region   string
	Address  string
}

// RegisterCompanyInput — данные регистрации компании.
type RegisterCompanyInput struct {
	Email              string
	Password           string
	CompanyName        string
	RegistrationNumber string
	GSTNumber          string
	ContactPerson      string
	Phone              string
	Address            string
}

// AuthResult — результат входа или регистрации.
type AuthResult struct {
	UserID  uuid.UUID   `json:"userId"`
	Role    string      `json:"role"`
	Tokens  *TokenPair  `json:"tokens"`
	Profile interface{} `json:"profile"`
}

// RegisterFarmer создаёт учётную запись и профиль фермера.
func (s *AuthService) RegisterFarmer(ctx context.Context, in RegisterFarmerInput) (*AuthResult, error) {
	in.Email = normalizeEmail(in.Email)
	if err := s.validateNewAccount(ctx, in.Email, in.Password); err != nil {
		return nil, err
	}
	if err := validation.ValidateLength("имя", in.Name, validation.MinNameLength, validation.MaxNameLength); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInvalidInput, err.Error())
	}
	if err := validation.ValidatePhone(in.Phone); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInvalidInput, err.Error())
	}
	if err := validation.ValidateAadhaar(in.Aadhaar); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInvalidInput, err.Error())
	}
	if err := validation.ValidatePincode(in.Pincode); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInvalidInput, err.Error())
	}

	userID := uuid.New()
	now := time.Now()
	profile := &models.FarmerProfile{
		ID:        userID,
		Email:     in.Email,
		Name:      in.Name,
		Phone:     in.Phone,
		Aadhaar:   in.Aadhaar,
		Pincode:   in.Pincode,
		Region:    in.Region,
		Address:   in.Address,
		UserType:  models.RoleFarmer,
		CreatedAt: now,
	}

	if err := s.createAccount(ctx, userID, in.Email, in.Password, models.RoleFarmer); err != nil {
		return nil, err
	}
	if err := s.profiles.SaveFarmer(ctx, profile); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, userID, models.RoleFarmer, profile)
}

// RegisterCompany создаёт учётную запись и профиль компании.
// Verified всегда false: проверку выполняет администратор.
func (s *AuthService) RegisterCompany(ctx context.Context, in RegisterCompanyInput) (*AuthResult, error) {
	in.Email = normalizeEmail(in.Email)
	if err := s.validateNewAccount(ctx, in.Email, in.Password); err != nil {
		return nil, err
	}
	if err := validation.ValidateLength("название компании", in.CompanyName, validation.MinNameLength, validation.MaxNameLength); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInvalidInput, err.Error())
	}
	if err := validation.ValidatePhone(in.Phone); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInvalidInput, err.Error())
	}

	userID := uuid.New()
	now := time.Now()
	profile := &models.CompanyProfile{
		ID:                 userID,
		Email:              in.Email,
		CompanyName:        in.CompanyName,
		RegistrationNumber: in.RegistrationNumber,
		GSTNumber:          in.GSTNumber,
		ContactPerson:      in.ContactPerson,
		Phone:              in.Phone,
		Address:            in.Address,
		UserType:           models.RoleCompany,
		Verified:           false,
		CreatedAt:          now,
	}

	if err := s.createAccount(ctx, userID, in.Email, in.Password, models.RoleCompany); err != nil {
		return nil, err
	}
	if err := s.profiles.SaveCompany(ctx, profile); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, userID, models.RoleCompany, profile)
}

// Login проверяет пароль и выдаёт пару токенов.
// Неверный email и неверный пароль неразличимы для клиента.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)

	cred, err := s.auth.GetCredentials(ctx, email)
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return nil, apperror.ErrInvalidCredentials
	}

	profile, _ := s.loadProfile(ctx, cred.UserID, cred.Role)
	return s.issueTokens(ctx, cred.UserID, cred.Role, profile)
}

// Refresh проверяет refresh токен, ротирует сессию и выдаёт новую пару.
// Старая сессия удаляется до выдачи новой: повторное использование
// токена после ротации отклоняется.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return nil, apperror.ErrUnauthorized
	}

	session, err := s.auth.GetSession(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if session.RefreshToken != refreshToken || time.Now().After(session.ExpiresAt) {
		return nil, apperror.ErrUnauthorized
	}

	if err := s.auth.DeleteSession(ctx, claims.ID); err != nil {
		return nil, err
	}

	profile, _ := s.loadProfile(ctx, session.UserID, session.Role)
	return s.issueTokens(ctx, session.UserID, session.Role, profile)
}

// Logout удаляет refresh-сессию по токену. Неизвестный токен — не ошибка.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return nil
	}
	return s.auth.DeleteSession(ctx, claims.ID)
}

// Profile возвращает профиль текущего пользователя по роли.
func (s *AuthService) Profile(ctx context.Context, userID uuid.UUID, role string) (interface{}, error) {
	return s.loadProfile(ctx, userID, role)
}

// EnsureAdmin создаёт учётную запись администратора, если её ещё нет.
// Вызывается при старте приложения; пустой email отключает сидинг.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	email = normalizeEmail(email)

	if _, err := s.auth.GetCredentials(ctx, email); err == nil {
		return nil
	}

	userID := uuid.New()
	if err := s.createAccount(ctx, userID, email, password, models.RoleAdmin); err != nil {
		return err
	}

	logger.WithComponent("auth_service").WithField("email", email).
		Info("создана учётная запись администратора")
	return nil
}

func (s *AuthService) validateNewAccount(ctx context.Context, email, password string) error {
	if err := validation.ValidateEmail(email); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInvalidInput, err.Error())
	}
	if err := validation.ValidatePassword(password); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInvalidInput, err.Error())
	}
	if _, err := s.auth.GetCredentials(ctx, email); err == nil {
		return apperror.New(apperror.ErrCodeInvalidInput, "пользователь с таким email уже существует")
	}
	return nil
}

func (s *AuthService) createAccount(ctx context.Context, userID uuid.UUID, email, password, role string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось захешировать пароль")
	}

	return s.auth.SaveCredentials(ctx, &models.Credentials{
		UserID:       userID,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now(),
	})
}

func (s *AuthService) issueTokens(ctx context.Context, userID uuid.UUID, role string, profile interface{}) (*AuthResult, error) {
	pair, jti, refreshExp, err := s.tokens.GeneratePair(userID, role)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось выпустить токены")
	}

	session := &models.Session{
		UserID:       userID,
		Role:         role,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    refreshExp,
		CreatedAt:    time.Now(),
	}
	if err := s.auth.SaveSession(ctx, jti, session); err != nil {
		return nil, err
	}

	return &AuthResult{
		UserID:  userID,
		Role:    role,
		Tokens:  pair,
		Profile: profile,
	}, nil
}

func (s *AuthService) loadProfile(ctx context.Context, userID uuid.UUID, role string) (interface{}, error) {
	switch role {
	case models.RoleFarmer:
		return s.profiles.GetFarmer(ctx, userID)
	case models.RoleCompany:
		return s.profiles.GetCompany(ctx, userID)
	case models.RoleAdmin:
		// У администратора нет доменного профиля.
		return map[string]string{"role": models.RoleAdmin}, nil
	default:
		return nil, apperror.ErrProfileNotFound
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
