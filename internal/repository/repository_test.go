package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/diewo77/medicine-recommendation/internal/models"
)

func setupRepo(t *testing.T) (*Repository, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:repo_"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return New(db), db
}

func seedUser(t *testing.T, r *Repository, email, username string) *models.User {
	t.Helper()
	u := &models.User{Email: email, Username: username, PasswordHash: "hash"}
	if err := r.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func TestUserLookups(t *testing.T) {
	r, _ := setupRepo(t)
	ctx := context.Background()
	u := seedUser(t, r, "a@example.com", "alice")

	got, err := r.GetUserByEmail(ctx, "a@example.com")
	if err != nil || got.ID != u.ID {
		t.Fatalf("by email: %v %+v", err, got)
	}
	if _, err := r.GetUserByID(ctx, "missing"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if taken, _ := r.EmailTaken(ctx, "a@example.com"); !taken {
		t.Errorf("email should be taken")
	}
	if taken, _ := r.UsernameTaken(ctx, "alice", u.ID); taken {
		t.Errorf("own username must not count as taken")
	}
	if taken, _ := r.UsernameTaken(ctx, "alice", ""); !taken {
		t.Errorf("username should be taken")
	}
	if ok, _ := r.UserExists(ctx, u.ID); !ok {
		t.Errorf("user should exist")
	}
}

func TestDuplicateEmailIsTranslated(t *testing.T) {
	r, _ := setupRepo(t)
	seedUser(t, r, "dup@example.com", "one")
	err := r.CreateUser(context.Background(), &models.User{Email: "dup@example.com", Username: "two", PasswordHash: "h"})
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected ErrDuplicatedKey, got %v", err)
	}
}

func TestTransactionRollsBack(t *testing.T) {
	r, _ := setupRepo(t)
	ctx := context.Background()
	boom := errors.New("boom")
	err := r.Transaction(ctx, func(tx *Repository) error {
		if err := tx.CreateUser(ctx, &models.User{Email: "tx@example.com", Username: "tx", PasswordHash: "h"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if taken, _ := r.EmailTaken(ctx, "tx@example.com"); taken {
		t.Fatalf("insert should have been rolled back")
	}
}

func TestPredictionsNewestFirstAndDeleteCascade(t *testing.T) {
	r, db := setupRepo(t)
	ctx := context.Background()
	u := seedUser(t, r, "p@example.com", "pat")
	other := seedUser(t, r, "o@example.com", "other")

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, disease := range []string{"Allergy", "GERD", "Migraine"} {
		rec := &models.PredictionHistory{
			UserID:           u.ID,
			Symptoms:         datatypes.NewJSONSlice([]string{"headache"}),
			PredictedDisease: disease,
			CreatedAt:        base.Add(time.Duration(i) * time.Hour),
		}
		if err := r.CreatePrediction(ctx, rec); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if err := r.CreatePrediction(ctx, &models.PredictionHistory{UserID: other.ID, Symptoms: datatypes.NewJSONSlice([]string{"cough"}), PredictedDisease: "Pneumonia"}); err != nil {
		t.Fatalf("create other: %v", err)
	}

	list, err := r.ListPredictions(ctx, u.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 || list[0].PredictedDisease != "Migraine" || list[2].PredictedDisease != "Allergy" {
		t.Fatalf("unexpected order: %+v", list)
	}

	if err := r.Transaction(ctx, func(tx *Repository) error { return tx.DeleteUser(ctx, u.ID) }); err != nil {
		t.Fatalf("delete: %v", err)
	}
	var remaining int64
	db.Model(&models.PredictionHistory{}).Count(&remaining)
	if remaining != 1 {
		t.Fatalf("expected only the other user's record, got %d", remaining)
	}
	if n, _ := r.CountPredictions(ctx, other.ID); n != 1 {
		t.Fatalf("other user's history touched: %d", n)
	}
}

func TestPing(t *testing.T) {
	r, _ := setupRepo(t)
	if err := r.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}
