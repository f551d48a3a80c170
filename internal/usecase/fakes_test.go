package usecase

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/pattadonj/member-auth-api/internal/model"
	"github.com/pattadonj/member-auth-api/internal/repository"
)

// duplicateKeyError mirrors what the driver returns when a unique index
// rejects a write, so mongo.IsDuplicateKeyError recognizes it.
func duplicateKeyError() error {
	return mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
}

type fakeAccountRepo struct {
	mu          sync.Mutex
	accounts    map[string]*model.Account
	updateCalls int
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[string]*model.Account)}
}

func (r *fakeAccountRepo) CreateAccount(_ context.Context, account *model.Account) (*model.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.accounts {
		if existing.Email == account.Email {
			return nil, duplicateKeyError()
		}
		if account.GoogleID != "" && existing.GoogleID == account.GoogleID {
			return nil, duplicateKeyError()
		}
	}

	stored := *account
	stored.ID = bson.NewObjectID()
	r.accounts[stored.ID.Hex()] = &stored

	copied := stored
	return &copied, nil
}

func (r *fakeAccountRepo) GetAccount(_ context.Context, id string) (*model.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}

	copied := *account
	return &copied, nil
}

func (r *fakeAccountRepo) GetAccountByEmail(_ context.Context, email string) (*model.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, account := range r.accounts {
		if account.Email == email {
			copied := *account
			return &copied, nil
		}
	}

	return nil, mongo.ErrNoDocuments
}

func (r *fakeAccountRepo) GetAccountByGoogleID(_ context.Context, googleID string) (*model.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, account := range r.accounts {
		if account.GoogleID != "" && account.GoogleID == googleID {
			copied := *account
			return &copied, nil
		}
	}

	return nil, mongo.ErrNoDocuments
}

func (r *fakeAccountRepo) UpdateAccount(
	_ context.Context,
	id string,
	params repository.UpdateAccountParams,
) (*model.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.updateCalls++

	account, ok := r.accounts[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}

	if params.Verified != nil {
		account.Verified = *params.Verified
	}
	if params.VerificationCode != nil {
		account.VerificationCode = *params.VerificationCode
	}
	if params.VerificationCodeExpiresAt != nil {
		account.VerificationCodeExpiresAt = *params.VerificationCodeExpiresAt
	}

	copied := *account
	return &copied, nil
}

func (r *fakeAccountRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.accounts)
}

type sentEmail struct {
	email     string
	code      string
	firstName string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentEmail
	err  error
}

func (m *fakeMailer) SendVerificationEmail(email, code, firstName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}

	m.sent = append(m.sent, sentEmail{email: email, code: code, firstName: firstName})
	return nil
}

func (m *fakeMailer) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func (m *fakeMailer) lastSent() sentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent[len(m.sent)-1]
}
