package service

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"vieride/internal/booking"
	"vieride/internal/db"
	"vieride/internal/repository"
)

type AccountService interface {
	Register(name, email, phone, password string) (string, error)
	Login(email, password string) (string, error)
	Profile(accountID string) (*booking.Account, error)
	UpdateProfile(accountID, name, phone, homeAddress, businessAddress string) error
	JoinCompany(accountID, joinCode string) (*db.Company, error)
	LeaveCompany(accountID string) error
}

type accountService struct {
	repo repository.AccountRepository
}

func NewAccountService(repo repository.AccountRepository) AccountService {
	return &accountService{repo: repo}
}

func (s *accountService) Register(name, email, phone, password string) (string, error) {
	if name == "" || email == "" || password == "" {
		return "", errors.New("name, email and password cannot be empty")
	}
	if !booking.ValidEmail(email) {
		return "", errors.New("invalid email address")
	}
	if phone != "" && !booking.ValidPhone(phone) {
		return "", errors.New("invalid phone number")
	}

	existing, err := s.repo.GetByEmail(email)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", errors.New("an account with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	account := &db.Account{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		Phone:        phone,
		PasswordHash: string(hash),
		Role:         "customer",
	}
	if err := s.repo.Create(account); err != nil {
		return "", err
	}
	return s.issueToken(account)
}

func (s *accountService) Login(email, password string) (string, error) {
	account, err := s.repo.GetByEmail(email)
	if err != nil {
		return "", err
	}
	if account == nil {
		return "", errors.New("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return "", errors.New("invalid credentials")
	}
	return s.issueToken(account)
}

func (s *accountService) issueToken(account *db.Account) (string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", errors.New("JWT_SECRET not set")
	}
	claims := jwt.MapClaims{
		"account_id": account.ID,
		"email":      account.Email,
		"role":       account.Role,
		"exp":        time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Profile resolves the account the wizard and handlers work with, company
// benefits included.
func (s *accountService) Profile(accountID string) (*booking.Account, error) {
	row, err := s.repo.GetByID(accountID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, fmt.Errorf("account %s not found", accountID)
	}

	account := &booking.Account{
		ID:    row.ID,
		Name:  row.Name,
		Email: row.Email,
		Phone: row.Phone,
	}
	if row.HomeAddress.Valid {
		account.HomeAddress = row.HomeAddress.String
	}
	if row.BusinessAddress.Valid {
		account.BusinessAddress = row.BusinessAddress.String
	}
	if row.CompanyID.Valid {
		company, err := s.repo.GetCompanyByID(row.CompanyID.String)
		if err != nil {
			return nil, err
		}
		if company != nil {
			account.Corporate = true
			account.DiscountPercent = company.DiscountPercent
			account.InvoiceEnabled = company.InvoiceEnabled
		}
	}
	return account, nil
}

func (s *accountService) UpdateProfile(accountID, name, phone, homeAddress, businessAddress string) error {
	if phone != "" && !booking.ValidPhone(phone) {
		return errors.New("invalid phone number")
	}
	return s.repo.UpdateProfile(accountID, name, phone, homeAddress, businessAddress)
}

func (s *accountService) JoinCompany(accountID, joinCode string) (*db.Company, error) {
	company, err := s.repo.GetCompanyByJoinCode(joinCode)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, errors.New("unknown company code")
	}
	if err := s.repo.SetCompany(accountID, sql.NullString{String: company.ID, Valid: true}); err != nil {
		return nil, err
	}
	return company, nil
}

func (s *accountService) LeaveCompany(accountID string) error {
	return s.repo.SetCompany(accountID, sql.NullString{})
}
