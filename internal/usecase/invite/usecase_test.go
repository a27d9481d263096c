package invite

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"lendpeer-backend/internal/audit"
	domainRel "lendpeer-backend/internal/domain/relationship"
	domainTerm "lendpeer-backend/internal/domain/term"
	domainUser "lendpeer-backend/internal/domain/user"
	"lendpeer-backend/internal/domain/uow"
	"lendpeer-backend/internal/testutil/relationshipmock"
	"lendpeer-backend/internal/testutil/termmock"
	"lendpeer-backend/internal/testutil/uowmock"
	"lendpeer-backend/internal/testutil/usermock"
)

var (
	lenderID   = strings.Repeat("a", 32)
	borrowerID = strings.Repeat("b", 32)
)

const token = "tok_2f4c1f8b"

func inviteTerm() *domainTerm.LenderTerm {
	return &domainTerm.LenderTerm{
		TermID:         strings.Repeat("c", 32),
		LenderID:       lenderID,
		InviteToken:    token,
		MaxLoanAmount:  200,
		MaxPaybackDays: 30,
		FeePer10Short:  1,
		FeePer10Long:   2,
	}
}

func newInviteUC(terms *termmock.Repo, users *usermock.Repo, rels *relationshipmock.Repo) *Usecase {
	repos := uow.Repos{Terms: terms, Users: users, Relationships: rels}
	tx := uowmock.Passthrough(repos, nil)
	return NewUsecase(terms, users, rels, tx, audit.Nop{})
}

func TestLookup(t *testing.T) {
	terms := &termmock.Repo{
		GetByInviteTokenFn: func(_ context.Context, tok string) (*domainTerm.LenderTerm, error) {
			if tok == token {
				return inviteTerm(), nil
			}
			return nil, gorm.ErrRecordNotFound
		},
	}
	users := &usermock.Repo{
		GetByUserIDFn: func(_ context.Context, _ string) (*domainUser.User, error) {
			return &domainUser.User{UserID: lenderID, FullName: "Sam Lender"}, nil
		},
	}
	uc := newInviteUC(terms, users, &relationshipmock.Repo{})

	dto, err := uc.Lookup(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "Sam Lender", dto.LenderName)
	assert.Equal(t, 200.0, dto.MaxLoanAmount)

	_, err = uc.Lookup(context.Background(), "tok_bogus")
	require.ErrorIs(t, err, ErrInviteNotFound)
}

func TestAccept_CreatesConfirmedPairing(t *testing.T) {
	terms := &termmock.Repo{
		GetByInviteTokenFn: func(_ context.Context, _ string) (*domainTerm.LenderTerm, error) {
			return inviteTerm(), nil
		},
	}
	var created *domainRel.Relationship
	rels := &relationshipmock.Repo{
		GetByPartiesFn: func(_ context.Context, _, _ string) (*domainRel.Relationship, error) {
			return nil, gorm.ErrRecordNotFound
		},
		CreateFn: func(_ context.Context, r *domainRel.Relationship) error {
			created = r
			return nil
		},
	}
	uc := newInviteUC(terms, &usermock.Repo{}, rels)

	dto, err := uc.Accept(context.Background(), token, borrowerID)
	require.NoError(t, err)
	assert.Equal(t, domainRel.StatusConfirmed, dto.Status)

	require.NotNil(t, created)
	assert.Equal(t, lenderID, created.LenderID)
	assert.Equal(t, borrowerID, created.BorrowerID)
}

func TestAccept_IdempotentForExistingPairing(t *testing.T) {
	terms := &termmock.Repo{
		GetByInviteTokenFn: func(_ context.Context, _ string) (*domainTerm.LenderTerm, error) {
			return inviteTerm(), nil
		},
	}
	existing := &domainRel.Relationship{
		RelationshipID: strings.Repeat("e", 32),
		LenderID:       lenderID,
		BorrowerID:     borrowerID,
		Status:         domainRel.StatusConfirmed,
	}
	createCalls := 0
	rels := &relationshipmock.Repo{
		GetByPartiesFn: func(_ context.Context, _, _ string) (*domainRel.Relationship, error) {
			return existing, nil
		},
		CreateFn: func(_ context.Context, _ *domainRel.Relationship) error {
			createCalls++
			return nil
		},
	}
	uc := newInviteUC(terms, &usermock.Repo{}, rels)

	dto, err := uc.Accept(context.Background(), token, borrowerID)
	require.NoError(t, err)
	assert.Equal(t, existing.RelationshipID, dto.RelationshipID)
	assert.Zero(t, createCalls)
}

func TestAccept_Rejections(t *testing.T) {
	terms := &termmock.Repo{
		GetByInviteTokenFn: func(_ context.Context, tok string) (*domainTerm.LenderTerm, error) {
			if tok == token {
				return inviteTerm(), nil
			}
			return nil, gorm.ErrRecordNotFound
		},
	}
	blocked := &domainRel.Relationship{Status: domainRel.StatusBlocked}
	rels := &relationshipmock.Repo{
		GetByPartiesFn: func(_ context.Context, _, _ string) (*domainRel.Relationship, error) {
			return blocked, nil
		},
	}
	uc := newInviteUC(terms, &usermock.Repo{}, rels)

	_, err := uc.Accept(context.Background(), "tok_bogus", borrowerID)
	require.ErrorIs(t, err, ErrInviteNotFound)

	_, err = uc.Accept(context.Background(), token, lenderID)
	require.ErrorIs(t, err, ErrOwnInvite)

	_, err = uc.Accept(context.Background(), token, borrowerID)
	require.ErrorIs(t, err, ErrBlocked)
}

func TestSetStatus(t *testing.T) {
	rel := &domainRel.Relationship{
		RelationshipID: strings.Repeat("e", 32),
		LenderID:       lenderID,
		BorrowerID:     borrowerID,
		Status:         domainRel.StatusConfirmed,
	}
	rels := &relationshipmock.Repo{
		GetByRelationshipIDFn: func(_ context.Context, _ string) (*domainRel.Relationship, error) {
			return rel, nil
		},
		SaveFn: func(_ context.Context, _ *domainRel.Relationship) error { return nil },
	}
	uc := newInviteUC(&termmock.Repo{}, &usermock.Repo{}, rels)

	dto, err := uc.SetStatus(context.Background(), borrowerID, rel.RelationshipID, domainRel.StatusBlocked)
	require.NoError(t, err)
	assert.Equal(t, domainRel.StatusBlocked, dto.Status)

	_, err = uc.SetStatus(context.Background(), strings.Repeat("9", 32), rel.RelationshipID, domainRel.StatusConfirmed)
	require.ErrorIs(t, err, ErrNotInPair)
}

func TestListForUser_MergesBothSides(t *testing.T) {
	rels := &relationshipmock.Repo{
		ListByLenderIDFn: func(_ context.Context, _ string) ([]domainRel.Relationship, error) {
			return []domainRel.Relationship{{RelationshipID: strings.Repeat("1", 32)}}, nil
		},
		ListByBorrowerIDFn: func(_ context.Context, _ string) ([]domainRel.Relationship, error) {
			return []domainRel.Relationship{{RelationshipID: strings.Repeat("2", 32)}}, nil
		},
	}
	uc := newInviteUC(&termmock.Repo{}, &usermock.Repo{}, rels)

	out, err := uc.ListForUser(context.Background(), lenderID)
	require.NoError(t, err)
	assert.Len(t, out, 2)
}
