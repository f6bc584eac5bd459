package services

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/PauloHFS/skystore/internal/db"
	"github.com/PauloHFS/skystore/internal/logging"
	"github.com/PauloHFS/skystore/internal/mailer"
	"github.com/PauloHFS/skystore/internal/policies"
	"github.com/PauloHFS/skystore/internal/token"
	"github.com/PauloHFS/skystore/internal/validator"
	"github.com/PauloHFS/skystore/internal/worker"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveAccount    = errors.New("account not confirmed")
)

const (
	generatedPasswordLength = 9
	passwordAlphabet        = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

type UserService struct {
	pool    *db.DualPool
	issuer  *token.Issuer
	authz   atomic.Pointer[policies.Authorizer]
	baseURL string
}

func NewUserService(pool *db.DualPool, issuer *token.Issuer, authz *policies.Authorizer, baseURL string) *UserService {
	s := &UserService{
		pool:    pool,
		issuer:  issuer,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
	s.authz.Store(authz)
	return s
}

func (s *UserService) SetAuthorizer(a *policies.Authorizer) {
	s.authz.Store(a)
}

// Subject monta o sujeito da requisição, resolvendo os grupos em capacidades.
func (s *UserService) Subject(ctx context.Context, u db.User) (policies.Subject, error) {
	groups, err := s.pool.Queries().ListUserGroups(ctx, u.ID)
	if err != nil {
		return policies.Subject{}, fmt.Errorf("failed to list groups: %w", err)
	}
	caps, err := s.authz.Load().Resolve(groups)
	if err != nil {
		return policies.Subject{}, err
	}
	return policies.Subject{
		UserID:        u.ID,
		Authenticated: true,
		Staff:         u.IsStaff,
		Superuser:     u.IsSuperuser,
		Groups:        groups,
		Capabilities:  caps,
	}, nil
}

func accountState(u db.User) string {
	return fmt.Sprintf("%s|%t", u.PasswordHash, u.IsActive)
}

func EncodeUID(id int64) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.FormatInt(id, 10)))
}

func DecodeUID(uid string) (int64, error) {
	raw, err := base64.RawURLEncoding.DecodeString(uid)
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(string(raw), 10, 64)
}

// ConfirmationLink monta a URL enviada por e-mail.
func (s *UserService) ConfirmationLink(u db.User) (string, error) {
	tok, err := s.issuer.Issue(u.ID, accountState(u))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/users/confirm/%s/%s", s.baseURL, EncodeUID(u.ID), tok), nil
}

// Register cria a conta inativa e enfileira o link de confirmação. Um e-mail
// de conta ainda inativa recebe nova senha e um novo link.
func (s *UserService) Register(ctx context.Context, email, password string) (db.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if res := validator.ValidateRegistration(email, password); !res.Valid {
		fe := &validator.FormError{}
		for _, e := range res.Errors {
			fe.Add(e.Field, e.Message)
		}
		return db.User{}, fe
	}

	existing, err := s.pool.Queries().GetUserByEmail(ctx, email)
	switch {
	case err == nil && existing.IsActive:
		fe := &validator.FormError{}
		fe.Add("email", "Este e-mail já está em uso")
		return db.User{}, fe
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return db.User{}, fmt.Errorf("failed to look up user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return db.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	var user db.User
	err = s.pool.WithTx(ctx, func(q *db.Queries) error {
		if existing.ID != 0 {
			if err := q.UpdateUserPassword(ctx, db.UpdateUserPasswordParams{PasswordHash: string(hash), ID: existing.ID}); err != nil {
				return fmt.Errorf("failed to refresh inactive account: %w", err)
			}
			user = existing
			user.PasswordHash = string(hash)
		} else {
			created, err := q.CreateUser(ctx, db.CreateUserParams{Email: email, PasswordHash: string(hash)})
			if err != nil {
				return fmt.Errorf("failed to create user: %w", err)
			}
			user = created
		}

		link, err := s.ConfirmationLink(user)
		if err != nil {
			return err
		}
		subject, body := mailer.ConfirmationEmail(link)
		_, err = worker.EnqueueEmail(ctx, q, user.Email, subject, body)
		return err
	})
	if err != nil {
		return db.User{}, err
	}

	logging.AddToEvent(ctx, slog.Int64("registered_user_id", user.ID), slog.Bool("reregistered", existing.ID != 0))
	return user, nil
}

// Confirm ativa a conta se o token for válido. Tokens inválidos deixam a conta inativa.
func (s *UserService) Confirm(ctx context.Context, uid, tok string) (db.User, error) {
	id, err := DecodeUID(uid)
	if err != nil {
		return db.User{}, token.ErrInvalidToken
	}
	user, err := s.pool.Queries().GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return db.User{}, token.ErrInvalidToken
		}
		return db.User{}, err
	}
	if err := s.issuer.Verify(tok, user.ID, accountState(user)); err != nil {
		logging.AddToEvent(ctx, slog.String("confirm_error", err.Error()))
		return db.User{}, token.ErrInvalidToken
	}

	if err := s.pool.QueriesWrite().ActivateUser(ctx, user.ID); err != nil {
		return db.User{}, fmt.Errorf("failed to activate user: %w", err)
	}
	user.IsActive = true
	return user, nil
}

func (s *UserService) Authenticate(ctx context.Context, email, password string) (db.User, error) {
	user, err := s.pool.Queries().GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return db.User{}, ErrInvalidCredentials
		}
		return db.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return db.User{}, ErrInvalidCredentials
	}
	if !user.IsActive {
		return db.User{}, ErrInactiveAccount
	}
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, subj policies.Subject, form validator.ProfileForm, avatarURL string) error {
	if !subj.Authenticated {
		return policies.ErrForbidden
	}
	if fe := validator.Check(form); fe != nil {
		return fe
	}
	return s.pool.QueriesWrite().UpdateUserProfile(ctx, db.UpdateUserProfileParams{
		Phone:     nullString(form.Phone),
		Country:   nullString(form.Country),
		AvatarUrl: nullString(avatarURL),
		ID:        subj.UserID,
	})
}

// List: superusuários veem todas as contas, staff só as que não são staff.
func (s *UserService) List(ctx context.Context, subj policies.Subject) ([]db.User, error) {
	switch policies.ListableUsers(subj) {
	case policies.UsersAll:
		return s.pool.Queries().ListUsers(ctx, true)
	case policies.UsersNonStaff:
		return s.pool.Queries().ListUsers(ctx, false)
	default:
		return nil, policies.ErrForbidden
	}
}

func (s *UserService) ToggleActive(ctx context.Context, subj policies.Subject, id int64) (bool, error) {
	target, err := s.pool.Queries().GetUserByID(ctx, id)
	if err != nil {
		return false, notFound(err)
	}
	if err := policies.CanToggleUser(subj, target.ID, target.IsStaff || target.IsSuperuser); err != nil {
		return target.IsActive, err
	}
	active, err := s.pool.QueriesWrite().ToggleUserActive(ctx, id)
	if err != nil {
		return target.IsActive, fmt.Errorf("failed to toggle user: %w", err)
	}
	logging.AddToEvent(ctx, slog.Int64("target_user_id", id), slog.Bool("is_active", active))
	return active, nil
}

// GenerateNewPassword troca a senha do próprio usuário por uma aleatória enviada por e-mail.
func (s *UserService) GenerateNewPassword(ctx context.Context, subj policies.Subject) error {
	if !subj.Authenticated {
		return policies.ErrForbidden
	}
	user, err := s.pool.Queries().GetUserByID(ctx, subj.UserID)
	if err != nil {
		return notFound(err)
	}
	return s.resetPassword(ctx, user)
}

// RegeneratePassword envia nova senha para o e-mail informado. E-mail
// desconhecido devolve ErrUserNotFound, o que revela se a conta existe.
func (s *UserService) RegeneratePassword(ctx context.Context, email string) error {
	user, err := s.pool.Queries().GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logging.AddToEvent(ctx, slog.Bool("regenerate_unknown_email", true))
			return ErrUserNotFound
		}
		return err
	}
	return s.resetPassword(ctx, user)
}

func (s *UserService) resetPassword(ctx context.Context, user db.User) error {
	password, err := GeneratePassword()
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.pool.WithTx(ctx, func(q *db.Queries) error {
		if err := q.UpdateUserPassword(ctx, db.UpdateUserPasswordParams{PasswordHash: string(hash), ID: user.ID}); err != nil {
			return fmt.Errorf("failed to update password: %w", err)
		}
		subject, body := mailer.PasswordEmail(password)
		_, err := worker.EnqueueEmail(ctx, q, user.Email, subject, body)
		return err
	})
}

// CreateModerator cria uma conta staff ativa no grupo manager.
func (s *UserService) CreateModerator(ctx context.Context, subj policies.Subject, email, password string) (db.User, error) {
	if err := policies.CanCreateModerator(subj); err != nil {
		return db.User{}, err
	}
	return s.CreateAccount(ctx, email, password, AccountOptions{Staff: true, Groups: []string{policies.ManagerGroup}})
}

type AccountOptions struct {
	Staff     bool
	Superuser bool
	Groups    []string
}

// CreateAccount cria uma conta já ativa. Usado pela CLI e pela criação de moderadores.
func (s *UserService) CreateAccount(ctx context.Context, email, password string, opts AccountOptions) (db.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if res := validator.ValidateRegistration(email, password); !res.Valid {
		fe := &validator.FormError{}
		for _, e := range res.Errors {
			fe.Add(e.Field, e.Message)
		}
		return db.User{}, fe
	}
	if _, err := s.pool.Queries().GetUserByEmail(ctx, email); err == nil {
		fe := &validator.FormError{}
		fe.Add("email", "Este e-mail já está em uso")
		return db.User{}, fe
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return db.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	var user db.User
	err = s.pool.WithTx(ctx, func(q *db.Queries) error {
		created, err := q.CreateUser(ctx, db.CreateUserParams{
			Email:        email,
			PasswordHash: string(hash),
			IsActive:     true,
			IsStaff:      opts.Staff || opts.Superuser,
			IsSuperuser:  opts.Superuser,
		})
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		for _, g := range opts.Groups {
			if err := q.AddUserToGroup(ctx, db.AddUserToGroupParams{UserID: created.ID, GroupName: g}); err != nil {
				return fmt.Errorf("failed to add user to group %s: %w", g, err)
			}
		}
		user = created
		return nil
	})
	return user, err
}

// GeneratePassword gera uma senha aleatória sem caracteres ambíguos.
func GeneratePassword() (string, error) {
	var b strings.Builder
	limit := big.NewInt(int64(len(passwordAlphabet)))
	for range generatedPasswordLength {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("failed to generate password: %w", err)
		}
		b.WriteByte(passwordAlphabet[n.Int64()])
	}
	return b.String(), nil
}
