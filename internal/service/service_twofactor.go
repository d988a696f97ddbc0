package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/zero-vault/internal/logger"
	"github.com/MKhiriev/zero-vault/internal/store"
	"github.com/MKhiriev/zero-vault/internal/utils"
	"github.com/MKhiriev/zero-vault/models"
	"github.com/pquerna/otp/totp"
)

type twoFactorService struct {
	accounts      store.AccountRepository
	pendingLogins store.PendingStore[models.PendingLogin]
	issuer        string
	logger        *logger.Logger
}

// NewTwoFactorService creates a service managing TOTP enrollment and the
// second login step. Logins awaiting a code are parked in the given
// pending store under their temp token.
func NewTwoFactorService(accounts store.AccountRepository, pendingLogins store.PendingStore[models.PendingLogin], issuer string, log *logger.Logger) TwoFactorService {
	log.Debug().Msg("TwoFactorService initialized")

	return &twoFactorService{
		accounts:      accounts,
		pendingLogins: pendingLogins,
		issuer:        issuer,
		logger:        log,
	}
}

func (s *twoFactorService) Setup(ctx context.Context, accountID int64) (string, string, error) {
	log := logger.FromContext(ctx)

	account, err := s.accounts.FindAccountByID(ctx, accountID)
	if err != nil {
		log.Error().Err(err).Str("func", "*twoFactorService.Setup").Msg("account lookup failed")
		return "", "", fmt.Errorf("error looking up account: %w", err)
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.issuer,
		AccountName: account.Username,
	})
	if err != nil {
		log.Error().Err(err).Str("func", "*twoFactorService.Setup").Msg("totp generation failed")
		return "", "", fmt.Errorf("error generating totp secret: %w", err)
	}

	// Nothing is persisted here. The secret only takes effect once the
	// client proves it can produce a code for it via Enable.
	return key.Secret(), key.URL(), nil
}

func (s *twoFactorService) Enable(ctx context.Context, accountID int64, secret, code string) error {
	log := logger.FromContext(ctx)

	if secret == "" {
		return fmt.Errorf("%w: secret is required", ErrValidation)
	}
	if err := validateTOTPCode(code); err != nil {
		return err
	}

	if !totp.Validate(code, secret) {
		return ErrInvalidCode
	}

	if err := s.accounts.UpdateTOTPSecret(ctx, accountID, secret); err != nil {
		log.Error().Err(err).Str("func", "*twoFactorService.Enable").Msg("secret update failed")
		return fmt.Errorf("error saving totp secret: %w", err)
	}

	log.Info().Str("func", "*twoFactorService.Enable").Int64("account_id", accountID).Msg("two-factor enabled")

	return nil
}

func (s *twoFactorService) Disable(ctx context.Context, accountID int64, code string) error {
	log := logger.FromContext(ctx)

	if err := validateTOTPCode(code); err != nil {
		return err
	}

	account, err := s.accounts.FindAccountByID(ctx, accountID)
	if err != nil {
		log.Error().Err(err).Str("func", "*twoFactorService.Disable").Msg("account lookup failed")
		return fmt.Errorf("error looking up account: %w", err)
	}

	if !account.TwoFactorEnabled() {
		return fmt.Errorf("%w: two-factor is not enabled", ErrValidation)
	}
	if !totp.Validate(code, account.TOTPSecret) {
		return ErrInvalidCode
	}

	if err := s.accounts.UpdateTOTPSecret(ctx, accountID, ""); err != nil {
		log.Error().Err(err).Str("func", "*twoFactorService.Disable").Msg("secret update failed")
		return fmt.Errorf("error clearing totp secret: %w", err)
	}

	log.Info().Str("func", "*twoFactorService.Disable").Int64("account_id", accountID).Msg("two-factor disabled")

	return nil
}

func (s *twoFactorService) Gate(ctx context.Context, account models.Account) (bool, string, error) {
	log := logger.FromContext(ctx)

	if !account.TwoFactorEnabled() {
		return false, "", nil
	}

	tempToken, err := utils.NewOpaqueToken()
	if err != nil {
		log.Error().Err(err).Str("func", "*twoFactorService.Gate").Msg("temp token generation failed")
		return false, "", fmt.Errorf("error generating temp token: %w", err)
	}

	s.pendingLogins.Put(tempToken, models.PendingLogin{
		TempToken: tempToken,
		AccountID: account.AccountID,
	})

	return true, tempToken, nil
}

func (s *twoFactorService) CompleteLogin(ctx context.Context, tempToken, code string) (models.Account, error) {
	log := logger.FromContext(ctx)

	if err := validateTOTPCode(code); err != nil {
		return models.Account{}, err
	}

	pending, ok := s.pendingLogins.Get(tempToken)
	if !ok {
		return models.Account{}, ErrInvalidOrExpiredToken
	}

	account, err := s.accounts.FindAccountByID(ctx, pending.AccountID)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			s.pendingLogins.Delete(tempToken)
			return models.Account{}, ErrInvalidOrExpiredToken
		}
		log.Error().Err(err).Str("func", "*twoFactorService.CompleteLogin").Msg("account lookup failed")
		return models.Account{}, fmt.Errorf("error looking up account: %w", err)
	}

	if !totp.Validate(code, account.TOTPSecret) {
		// The pending entry stays: a mistyped code may be retried until
		// the entry expires.
		return models.Account{}, ErrInvalidCode
	}

	s.pendingLogins.Delete(tempToken)

	log.Info().Str("func", "*twoFactorService.CompleteLogin").Int64("account_id", account.AccountID).Msg("second factor accepted")

	return account, nil
}

func (s *twoFactorService) SweepPending() int {
	return s.pendingLogins.Sweep()
}
