package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"vieride/internal/db"
)

type AccountRepository interface {
	GetByEmail(email string) (*db.Account, error)
	GetByID(id string) (*db.Account, error)
	Create(account *db.Account) error
	UpdateProfile(id, name, phone, homeAddress, businessAddress string) error
	SetCompany(accountID string, companyID sql.NullString) error
	GetCompanyByID(id string) (*db.Company, error)
	GetCompanyByJoinCode(code string) (*db.Company, error)
}

type accountRepository struct {
	db *sql.DB
}

func NewAccountRepository(database *sql.DB) AccountRepository {
	return &accountRepository{db: database}
}

const accountColumns = `id, name, email, phone, password_hash, role, home_address, business_address, company_id, created_at, updated_at`

func (r *accountRepository) scanAccount(row *sql.Row) (*db.Account, error) {
	var a db.Account
	err := row.Scan(
		&a.ID, &a.Name, &a.Email, &a.Phone, &a.PasswordHash, &a.Role,
		&a.HomeAddress, &a.BusinessAddress, &a.CompanyID, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *accountRepository) GetByEmail(email string) (*db.Account, error) {
	return r.scanAccount(r.db.QueryRow(
		`SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email))
}

func (r *accountRepository) GetByID(id string) (*db.Account, error) {
	return r.scanAccount(r.db.QueryRow(
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id))
}

func (r *accountRepository) Create(account *db.Account) error {
	query := `
		INSERT INTO accounts (id, name, email, phone, password_hash, role, home_address, business_address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING created_at, updated_at`
	err := r.db.QueryRow(query,
		account.ID, account.Name, account.Email, account.Phone,
		account.PasswordHash, account.Role, account.HomeAddress, account.BusinessAddress,
	).Scan(&account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating account: %w", err)
	}
	return nil
}

func (r *accountRepository) UpdateProfile(id, name, phone, homeAddress, businessAddress string) error {
	result, err := r.db.Exec(`
		UPDATE accounts
		SET name = $2, phone = $3, home_address = $4, business_address = $5, updated_at = NOW()
		WHERE id = $1`,
		id, name, phone, homeAddress, businessAddress,
	)
	if err != nil {
		return fmt.Errorf("error updating profile: %w", err)
	}
	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return fmt.Errorf("account %s not found", id)
	}
	return nil
}

func (r *accountRepository) SetCompany(accountID string, companyID sql.NullString) error {
	_, err := r.db.Exec(`UPDATE accounts SET company_id = $2, updated_at = NOW() WHERE id = $1`, accountID, companyID)
	if err != nil {
		return fmt.Errorf("error updating account company: %w", err)
	}
	return nil
}

func (r *accountRepository) GetCompanyByID(id string) (*db.Company, error) {
	var c db.Company
	err := r.db.QueryRow(
		`SELECT id, name, join_code, discount_percent, invoice_enabled, created_at FROM companies WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.JoinCode, &c.DiscountPercent, &c.InvoiceEnabled, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying company: %w", err)
	}
	return &c, nil
}

func (r *accountRepository) GetCompanyByJoinCode(code string) (*db.Company, error) {
	var c db.Company
	err := r.db.QueryRow(
		`SELECT id, name, join_code, discount_percent, invoice_enabled, created_at FROM companies WHERE join_code = $1`, code,
	).Scan(&c.ID, &c.Name, &c.JoinCode, &c.DiscountPercent, &c.InvoiceEnabled, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying company by join code: %w", err)
	}
	return &c, nil
}
