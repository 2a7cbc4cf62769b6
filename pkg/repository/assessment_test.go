package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskform/pkg/domain/interfaces"
	"github.com/secmon-lab/riskform/pkg/domain/model"
	"github.com/secmon-lab/riskform/pkg/domain/types"
	"github.com/secmon-lab/riskform/pkg/repository/firestore"
	"github.com/secmon-lab/riskform/pkg/repository/memory"
)

func isNotFound(err error) bool {
	return errors.Is(err, memory.ErrNotFound) || errors.Is(err, firestore.ErrNotFound)
}

func newTestAssessment(title, validator string) *model.Assessment {
	return &model.Assessment{
		Title:     title,
		Validator: validator,
		Questions: []model.Question{
			{Text: "Is there an incident response plan?", Response: types.ResponseNo, Weight: 50},
			{Text: "Are backups tested monthly?", Response: types.ResponseYes, Weight: 20},
			{Text: "Is MFA enforced?", Response: types.ResponseYes, Weight: 20},
		},
	}
}

func runAssessmentRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create assigns ID and CreatedAt", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Assessment().Create(ctx, newTestAssessment("Data center", "Jane Roe"))
		gt.NoError(t, err).Required()

		gt.S(t, created.ID.String()).NotEqual("")
		gt.B(t, created.CreatedAt.IsZero()).False()
		gt.S(t, created.Title).Equal("Data center")
	})

	t.Run("Get preserves question order", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Assessment().Create(ctx, newTestAssessment("Office", "John Doe"))
		gt.NoError(t, err).Required()

		got, err := repo.Assessment().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.S(t, got.Validator).Equal("John Doe")
		gt.A(t, got.Questions).Length(3)
		gt.S(t, got.Questions[0].Text).Equal("Is there an incident response plan?")
		gt.V(t, got.Questions[0].Response).Equal(types.ResponseNo)
		gt.Number(t, got.Questions[0].Weight).Equal(50)
		gt.S(t, got.Questions[2].Text).Equal("Is MFA enforced?")
	})

	t.Run("Get returns ErrNotFound for unknown ID", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Assessment().Get(context.Background(), model.NewAssessmentID())
		gt.Error(t, err)
		gt.B(t, isNotFound(err)).True()
	})

	t.Run("List returns newest first", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		older := newTestAssessment("Older", "Jane Roe")
		older.CreatedAt = time.Now().UTC().Add(-time.Hour)
		newer := newTestAssessment("Newer", "Jane Roe")
		newer.CreatedAt = time.Now().UTC()

		_, err := repo.Assessment().Create(ctx, older)
		gt.NoError(t, err).Required()
		_, err = repo.Assessment().Create(ctx, newer)
		gt.NoError(t, err).Required()

		list, err := repo.Assessment().List(ctx)
		gt.NoError(t, err).Required()
		gt.A(t, list).Length(2)
		gt.S(t, list[0].Title).Equal("Newer")
		gt.S(t, list[1].Title).Equal("Older")
	})

	t.Run("ListByValidator filters", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Assessment().Create(ctx, newTestAssessment("A", "Jane Roe"))
		gt.NoError(t, err).Required()
		_, err = repo.Assessment().Create(ctx, newTestAssessment("B", "John Doe"))
		gt.NoError(t, err).Required()

		list, err := repo.Assessment().ListByValidator(ctx, "John Doe")
		gt.NoError(t, err).Required()
		gt.A(t, list).Length(1)
		gt.S(t, list[0].Title).Equal("B")
	})

	t.Run("Delete removes assessment", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Assessment().Create(ctx, newTestAssessment("Temp", "Jane Roe"))
		gt.NoError(t, err).Required()

		gt.NoError(t, repo.Assessment().Delete(ctx, created.ID)).Required()

		_, err = repo.Assessment().Get(ctx, created.ID)
		gt.B(t, isNotFound(err)).True()

		err = repo.Assessment().Delete(ctx, created.ID)
		gt.B(t, isNotFound(err)).True()
	})
}

func newFirestoreRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID not set")
	}

	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")
	if databaseID == "" {
		t.Skip("TEST_FIRESTORE_DATABASE_ID not set")
	}

	ctx := context.Background()
	prefix := fmt.Sprintf("test_%d", time.Now().UnixNano())
	repo, err := firestore.New(ctx, projectID, databaseID, firestore.WithCollectionPrefix(prefix))
	if err != nil {
		t.Fatalf("failed to create firestore repository: %v", err)
	}
	t.Cleanup(func() {
		if err := repo.Close(); err != nil {
			t.Errorf("failed to close firestore repository: %v", err)
		}
	})
	return repo
}

func TestMemoryAssessmentRepository(t *testing.T) {
	runAssessmentRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestFirestoreAssessmentRepository(t *testing.T) {
	runAssessmentRepositoryTest(t, newFirestoreRepository)
}

func TestMemoryReturnsCopies(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	created, err := repo.Assessment().Create(ctx, newTestAssessment("Copy", "Jane Roe"))
	gt.NoError(t, err).Required()

	created.Questions[0].Weight = 99

	got, err := repo.Assessment().Get(ctx, created.ID)
	gt.NoError(t, err).Required()
	gt.Number(t, got.Questions[0].Weight).Equal(50)
}
