package batch

import (
	"context"
	"errors"
	"testing"
	"time"

	batchdomain "nalewka/internal/domain/batch"
	ingredientdomain "nalewka/internal/domain/ingredient"
	liquordomain "nalewka/internal/domain/liquor"
	userdomain "nalewka/internal/domain/user"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(
		&userdomain.User{},
		&liquordomain.Liquor{},
		&ingredientdomain.Ingredient{},
		&batchdomain.Batch{},
		&batchdomain.Formula{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seed(t *testing.T, db *gorm.DB) (liquorID uint, ingredientIDs []uint) {
	t.Helper()

	owner := userdomain.User{Username: "anna", Email: "anna@example.com"}
	if err := db.Create(&owner).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	other := userdomain.User{Username: "beata", Email: "beata@example.com"}
	if err := db.Create(&other).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	liquor := liquordomain.Liquor{Name: "Wiśniówka", UserID: owner.ID}
	if err := db.Create(&liquor).Error; err != nil {
		t.Fatalf("seed liquor: %v", err)
	}

	for _, name := range []string{"cherries", "sugar"} {
		ingredient := ingredientdomain.Ingredient{Name: name}
		if err := db.Create(&ingredient).Error; err != nil {
			t.Fatalf("seed ingredient: %v", err)
		}
		ingredientIDs = append(ingredientIDs, ingredient.ID)
	}
	return liquor.ID, ingredientIDs
}

func TestTransactionRollsBack(t *testing.T) {
	db := setupTestDB(t)
	liquorID, _ := seed(t, db)
	repo := NewPostgres(db)
	ctx := context.Background()

	wantErr := errors.New("boom")
	err := repo.Transaction(ctx, func(tx batchdomain.Repository) error {
		if err := tx.CreateBatch(ctx, &batchdomain.Batch{
			Date: time.Now(), Description: "doomed", LiquorID: liquorID,
		}); err != nil {
			return err
		}
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("transaction err = %v, want %v", err, wantErr)
	}

	var count int64
	if err := db.Model(&batchdomain.Batch{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Errorf("batch count after rollback = %d, want 0", count)
	}
}

func TestGetBatchForUserScopesByOwner(t *testing.T) {
	db := setupTestDB(t)
	liquorID, ingredientIDs := seed(t, db)
	repo := NewPostgres(db)
	ctx := context.Background()

	created := batchdomain.Batch{Date: time.Now(), Description: "first", LiquorID: liquorID}
	if err := repo.CreateBatch(ctx, &created); err != nil {
		t.Fatalf("create batch: %v", err)
	}
	if err := repo.CreateFormula(ctx, &batchdomain.Formula{
		BatchID: created.ID, IngredientID: ingredientIDs[0], Quantity: 1.5, Unit: "kg",
	}); err != nil {
		t.Fatalf("create formula: %v", err)
	}

	detail, err := repo.GetBatchForUser(ctx, created.ID, 1)
	if err != nil {
		t.Fatalf("get batch: %v", err)
	}
	if len(detail.Formulas) != 1 {
		t.Fatalf("formulas = %d, want 1", len(detail.Formulas))
	}
	if detail.Formulas[0].IngredientName != "cherries" {
		t.Errorf("ingredient name = %q, want cherries", detail.Formulas[0].IngredientName)
	}

	if _, err := repo.GetBatchForUser(ctx, created.ID, 2); !errors.Is(err, batchdomain.ErrBatchNotFound) {
		t.Errorf("foreign get err = %v, want ErrBatchNotFound", err)
	}
}

func TestListBatchesForLiquorCounts(t *testing.T) {
	db := setupTestDB(t)
	liquorID, ingredientIDs := seed(t, db)
	repo := NewPostgres(db)
	ctx := context.Background()

	older := batchdomain.Batch{Date: time.Now().Add(-24 * time.Hour), Description: "older", LiquorID: liquorID}
	newer := batchdomain.Batch{Date: time.Now(), Description: "newer", LiquorID: liquorID}
	for _, b := range []*batchdomain.Batch{&older, &newer} {
		if err := repo.CreateBatch(ctx, b); err != nil {
			t.Fatalf("create batch: %v", err)
		}
	}
	for _, ingredientID := range ingredientIDs {
		if err := repo.CreateFormula(ctx, &batchdomain.Formula{
			BatchID: newer.ID, IngredientID: ingredientID, Quantity: 1, Unit: "kg",
		}); err != nil {
			t.Fatalf("create formula: %v", err)
		}
	}

	items, total, err := repo.ListBatchesForLiquor(ctx, liquorID, 10, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 {
		t.Errorf("total = %d, want 2", total)
	}
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
	if items[0].ID != newer.ID {
		t.Errorf("first item = %d, want newest batch %d", items[0].ID, newer.ID)
	}
	if items[0].IngredientCount != 2 {
		t.Errorf("ingredient count = %d, want 2", items[0].IngredientCount)
	}
	if items[1].IngredientCount != 0 {
		t.Errorf("ingredient count = %d, want 0", items[1].IngredientCount)
	}
}

func TestUpdateBatchTouchesOnlyGivenFields(t *testing.T) {
	db := setupTestDB(t)
	liquorID, _ := seed(t, db)
	repo := NewPostgres(db)
	ctx := context.Background()

	created := batchdomain.Batch{
		Date: time.Now(), Description: "original", LiquorID: liquorID,
		BottleCount: 4, BottleVolume: 500, BottleVolumeUnit: "ml",
	}
	if err := repo.CreateBatch(ctx, &created); err != nil {
		t.Fatalf("create batch: %v", err)
	}

	count := 9
	if err := repo.UpdateBatch(ctx, created.ID, batchdomain.Update{BottleCount: &count}); err != nil {
		t.Fatalf("update: %v", err)
	}

	detail, err := repo.GetBatchForUser(ctx, created.ID, 1)
	if err != nil {
		t.Fatalf("get batch: %v", err)
	}
	if detail.BottleCount != 9 {
		t.Errorf("bottle count = %d, want 9", detail.BottleCount)
	}
	if detail.Description != "original" {
		t.Errorf("description = %q, want unchanged", detail.Description)
	}
	if detail.BottleVolume != 500 {
		t.Errorf("bottle volume = %v, want unchanged", detail.BottleVolume)
	}
}

func TestDeleteBatchRemovesFormulas(t *testing.T) {
	db := setupTestDB(t)
	liquorID, ingredientIDs := seed(t, db)
	repo := NewPostgres(db)
	ctx := context.Background()

	created := batchdomain.Batch{Date: time.Now(), Description: "to delete", LiquorID: liquorID}
	if err := repo.CreateBatch(ctx, &created); err != nil {
		t.Fatalf("create batch: %v", err)
	}
	if err := repo.CreateFormula(ctx, &batchdomain.Formula{
		BatchID: created.ID, IngredientID: ingredientIDs[0], Quantity: 1, Unit: "kg",
	}); err != nil {
		t.Fatalf("create formula: %v", err)
	}

	deleted, err := repo.DeleteBatch(ctx, created.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !deleted {
		t.Fatal("delete reported no rows")
	}

	var count int64
	if err := db.Model(&batchdomain.Formula{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Errorf("formula count = %d, want 0", count)
	}
}

func TestGetFormulaForUserScopesByOwner(t *testing.T) {
	db := setupTestDB(t)
	liquorID, ingredientIDs := seed(t, db)
	repo := NewPostgres(db)
	ctx := context.Background()

	created := batchdomain.Batch{Date: time.Now(), Description: "x", LiquorID: liquorID}
	if err := repo.CreateBatch(ctx, &created); err != nil {
		t.Fatalf("create batch: %v", err)
	}
	formula := batchdomain.Formula{BatchID: created.ID, IngredientID: ingredientIDs[1], Quantity: 2, Unit: "kg"}
	if err := repo.CreateFormula(ctx, &formula); err != nil {
		t.Fatalf("create formula: %v", err)
	}

	detail, err := repo.GetFormulaForUser(ctx, formula.ID, 1)
	if err != nil {
		t.Fatalf("get formula: %v", err)
	}
	if detail.IngredientName != "sugar" {
		t.Errorf("ingredient name = %q, want sugar", detail.IngredientName)
	}

	if _, err := repo.GetFormulaForUser(ctx, formula.ID, 2); !errors.Is(err, batchdomain.ErrFormulaNotFound) {
		t.Errorf("foreign get err = %v, want ErrFormulaNotFound", err)
	}
}
