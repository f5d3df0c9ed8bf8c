package models_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"testing"
	"time"

	"bitbucket.org/mmdatafocus/distribution_backend/config"
	"bitbucket.org/mmdatafocus/distribution_backend/models"
	"bitbucket.org/mmdatafocus/distribution_backend/utils"
	"github.com/shopspring/decimal"
)

func TestInventoryEntryLifecycle_CompletesAndMovesStock(t *testing.T) {
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	ctx := context.Background()

	redisName, redisPort := startRedisContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(redisName) })

	mysqlName, mysqlPort := startMySQLContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(mysqlName) })

	// Wire env for config.Connect* helpers.
	t.Setenv("REDIS_ADDRESS", fmt.Sprintf("127.0.0.1:%s", redisPort))
	t.Setenv("DB_USER", "root")
	t.Setenv("DB_PASSWORD", "testpw")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", mysqlPort)
	t.Setenv("DB_NAME", "distribution_test")

	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()
	models.MigrateTable()

	biz, err := models.CreateBusiness(ctx, &models.NewBusiness{
		Name:  "Test Biz",
		Email: "owner@test.local",
	})
	if err != nil {
		t.Fatalf("CreateBusiness: %v", err)
	}
	businessID := biz.ID.String()
	ctx = utils.SetBusinessIdInContext(ctx, businessID)

	admin, err := models.CreateUser(ctx, &models.NewUser{
		BusinessId: businessID,
		Username:   "admin@test.local",
		Name:       "Admin",
		Password:   "testpassword",
		IsActive:   utils.NewTrue(),
		Role:       models.UserRoleAdmin,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	ctx = utils.SetUserIdInContext(ctx, admin.ID)
	ctx = utils.SetUserRoleInContext(ctx, string(models.UserRoleAdmin))

	bread, err := models.CreateProduct(ctx, &models.NewProduct{
		Sku:          "BREAD-001",
		Name:         "Bread",
		SalesPrice:   decimal.NewFromInt(500),
		OpeningStock: decimal.NewFromInt(10),
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	// Draft -> Pending -> Approved -> Completed, stock moves only on completion.
	entry, err := models.CreateInventoryEntry(ctx, &models.NewInventoryEntry{
		EntryType: models.InventoryEntryTypeProduction,
		EntryDate: time.Now(),
		Items: []models.NewInventoryEntryItem{
			{ProductId: bread.ID, Qty: decimal.NewFromInt(5), UnitCost: decimal.NewFromInt(200)},
		},
	})
	if err != nil {
		t.Fatalf("CreateInventoryEntry: %v", err)
	}
	if entry.Status != models.InventoryEntryStatusDraft {
		t.Fatalf("expected Draft after creation, got %s", entry.Status)
	}
	if !entry.TotalCost.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("expected total cost 1000, got %s", entry.TotalCost)
	}
	if !strings.HasPrefix(entry.EntryNumber, "PRD-") {
		t.Fatalf("expected PRD- entry number, got %s", entry.EntryNumber)
	}

	if _, err := models.SubmitInventoryEntry(ctx, entry.ID); err != nil {
		t.Fatalf("SubmitInventoryEntry: %v", err)
	}
	if _, err := models.ApproveInventoryEntry(ctx, entry.ID); err != nil {
		t.Fatalf("ApproveInventoryEntry: %v", err)
	}

	afterApprove, err := models.GetProduct(ctx, bread.ID)
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if !afterApprove.StockQty.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("stock must not move before completion, got %s", afterApprove.StockQty)
	}

	completed, err := models.CompleteInventoryEntry(ctx, entry.ID)
	if err != nil {
		t.Fatalf("CompleteInventoryEntry: %v", err)
	}
	if completed.Status != models.InventoryEntryStatusCompleted {
		t.Fatalf("expected Completed, got %s", completed.Status)
	}
	if completed.CompletedDate == nil {
		t.Fatalf("expected a completed date")
	}

	afterComplete, err := models.GetProduct(ctx, bread.ID)
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if !afterComplete.StockQty.Equal(decimal.NewFromInt(15)) {
		t.Fatalf("expected stock 15 after completion, got %s", afterComplete.StockQty)
	}

	// Completing twice must fail without moving stock again.
	if _, err := models.CompleteInventoryEntry(ctx, entry.ID); !utils.IsStateError(err) {
		t.Fatalf("expected a state error on double completion, got %v", err)
	}
	again, _ := models.GetProduct(ctx, bread.ID)
	if !again.StockQty.Equal(decimal.NewFromInt(15)) {
		t.Fatalf("double completion moved stock: %s", again.StockQty)
	}

	// Quick adjustment applies a signed delta but records an absolute qty.
	adjustment, err := models.QuickStockAdjustment(ctx, bread.ID, decimal.NewFromInt(-3), "damaged in transit")
	if err != nil {
		t.Fatalf("QuickStockAdjustment: %v", err)
	}
	if adjustment.Status != models.InventoryEntryStatusCompleted {
		t.Fatalf("adjustment should be born Completed, got %s", adjustment.Status)
	}
	if len(adjustment.Items) != 1 || !adjustment.Items[0].Qty.Equal(decimal.NewFromInt(3)) {
		t.Fatalf("expected one item with qty 3, got %+v", adjustment.Items)
	}
	afterAdjust, _ := models.GetProduct(ctx, bread.ID)
	if !afterAdjust.StockQty.Equal(decimal.NewFromInt(12)) {
		t.Fatalf("expected stock 12 after adjustment, got %s", afterAdjust.StockQty)
	}

	// Underflow is rejected and nothing is written.
	if _, err := models.QuickStockAdjustment(ctx, bread.ID, decimal.NewFromInt(-100), "oops"); err == nil {
		t.Fatalf("expected an underflow error")
	}
	afterUnderflow, _ := models.GetProduct(ctx, bread.ID)
	if !afterUnderflow.StockQty.Equal(decimal.NewFromInt(12)) {
		t.Fatalf("failed adjustment moved stock: %s", afterUnderflow.StockQty)
	}

	// Cancelled entries stay out of the stock path for good.
	doomed, err := models.CreateInventoryEntry(ctx, &models.NewInventoryEntry{
		EntryType: models.InventoryEntryTypePurchase,
		EntryDate: time.Now(),
		Items: []models.NewInventoryEntryItem{
			{ProductId: bread.ID, Qty: decimal.NewFromInt(2), UnitCost: decimal.NewFromInt(100)},
		},
	})
	if err != nil {
		t.Fatalf("CreateInventoryEntry: %v", err)
	}
	cancelled, err := models.CancelInventoryEntry(ctx, doomed.ID)
	if err != nil {
		t.Fatalf("CancelInventoryEntry: %v", err)
	}
	if cancelled.Status != models.InventoryEntryStatusCancelled {
		t.Fatalf("expected Cancelled, got %s", cancelled.Status)
	}
	if _, err := models.CompleteInventoryEntry(ctx, doomed.ID); !utils.IsStateError(err) {
		t.Fatalf("expected a state error completing a cancelled entry, got %v", err)
	}
	if _, err := models.CancelInventoryEntry(ctx, completed.ID); !utils.IsStateError(err) {
		t.Fatalf("expected a state error cancelling a completed entry, got %v", err)
	}

	final, _ := models.GetProduct(ctx, bread.ID)
	if !final.StockQty.Equal(decimal.NewFromInt(12)) {
		t.Fatalf("expected final stock 12, got %s", final.StockQty)
	}

	// Finalized entries reject edits and deletion; cancelled ones delete fine.
	if _, err := models.UpdateInventoryEntry(ctx, entry.ID, &models.UpdateInventoryEntryInput{
		EntryDate: time.Now(),
		Notes:     "too late",
	}); !utils.IsStateError(err) {
		t.Fatalf("expected a state error editing a completed entry, got %v", err)
	}
	if _, err := models.DeleteInventoryEntry(ctx, entry.ID); !utils.IsStateError(err) {
		t.Fatalf("expected a state error deleting a completed entry, got %v", err)
	}
	if _, err := models.DeleteInventoryEntry(ctx, doomed.ID); err != nil {
		t.Fatalf("DeleteInventoryEntry on cancelled entry: %v", err)
	}

	// A batch completion is all or nothing: one ineligible entry fails the
	// whole batch and no status or stock changes.
	first, err := models.CreateInventoryEntry(ctx, &models.NewInventoryEntry{
		EntryType: models.InventoryEntryTypePurchase,
		EntryDate: time.Now(),
		Items: []models.NewInventoryEntryItem{
			{ProductId: bread.ID, Qty: decimal.NewFromInt(4), UnitCost: decimal.NewFromInt(100)},
		},
	})
	if err != nil {
		t.Fatalf("CreateInventoryEntry: %v", err)
	}
	if _, err := models.SubmitInventoryEntry(ctx, first.ID); err != nil {
		t.Fatalf("SubmitInventoryEntry: %v", err)
	}
	if _, err := models.ApproveInventoryEntry(ctx, first.ID); err != nil {
		t.Fatalf("ApproveInventoryEntry: %v", err)
	}
	second, err := models.CreateInventoryEntry(ctx, &models.NewInventoryEntry{
		EntryType: models.InventoryEntryTypePurchase,
		EntryDate: time.Now(),
		Items: []models.NewInventoryEntryItem{
			{ProductId: bread.ID, Qty: decimal.NewFromInt(6), UnitCost: decimal.NewFromInt(100)},
		},
	})
	if err != nil {
		t.Fatalf("CreateInventoryEntry: %v", err)
	}

	if _, err := models.BatchUpdateInventoryEntryStatus(ctx,
		[]int{first.ID, second.ID}, models.InventoryEntryStatusCompleted); !utils.IsStateError(err) {
		t.Fatalf("expected a state error batching a draft entry to Completed, got %v", err)
	}
	firstAfterFail, _ := models.GetInventoryEntry(ctx, first.ID)
	if firstAfterFail.Status != models.InventoryEntryStatusApproved {
		t.Fatalf("failed batch changed an eligible entry: %s", firstAfterFail.Status)
	}
	secondAfterFail, _ := models.GetInventoryEntry(ctx, second.ID)
	if secondAfterFail.Status != models.InventoryEntryStatusDraft {
		t.Fatalf("failed batch changed the ineligible entry: %s", secondAfterFail.Status)
	}
	stockAfterFail, _ := models.GetProduct(ctx, bread.ID)
	if !stockAfterFail.StockQty.Equal(decimal.NewFromInt(12)) {
		t.Fatalf("failed batch moved stock: %s", stockAfterFail.StockQty)
	}

	// Once every entry is eligible the batch applies everywhere, moving stock
	// once per entry.
	if _, err := models.SubmitInventoryEntry(ctx, second.ID); err != nil {
		t.Fatalf("SubmitInventoryEntry: %v", err)
	}
	batched, err := models.BatchUpdateInventoryEntryStatus(ctx,
		[]int{first.ID, second.ID}, models.InventoryEntryStatusCompleted)
	if err != nil {
		t.Fatalf("BatchUpdateInventoryEntryStatus: %v", err)
	}
	for _, e := range batched {
		if e.Status != models.InventoryEntryStatusCompleted {
			t.Fatalf("batched entry %d not completed: %s", e.ID, e.Status)
		}
		if e.CompletedDate == nil {
			t.Fatalf("batched entry %d has no completed date", e.ID)
		}
	}
	stockAfterBatch, _ := models.GetProduct(ctx, bread.ID)
	if !stockAfterBatch.StockQty.Equal(decimal.NewFromInt(22)) {
		t.Fatalf("expected stock 22 after batch completion, got %s", stockAfterBatch.StockQty)
	}

	// A corrupt stored hash must never authenticate.
	corrupt := models.User{
		BusinessId: businessID,
		Username:   "corrupt@test.local",
		Name:       "Corrupt",
		Password:   "not-a-bcrypt-hash",
		IsActive:   utils.NewTrue(),
		Role:       models.UserRoleEmployee,
	}
	if err := config.GetDB().WithContext(ctx).Create(&corrupt).Error; err != nil {
		t.Fatalf("create corrupt user: %v", err)
	}
	if _, err := models.Login(ctx, "corrupt@test.local", "not-a-bcrypt-hash"); err == nil {
		t.Fatalf("corrupt stored hash authenticated")
	}

	// Deactivating a user cuts access immediately, not at token expiry.
	clerk, err := models.CreateUser(ctx, &models.NewUser{
		BusinessId: businessID,
		Username:   "clerk@test.local",
		Name:       "Clerk",
		Password:   "clerkpassword",
		IsActive:   utils.NewTrue(),
		Role:       models.UserRoleEmployee,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	clerkCtx := utils.SetBusinessIdInContext(context.Background(), businessID)
	clerkCtx = utils.SetUserIdInContext(clerkCtx, clerk.ID)
	clerkCtx = utils.SetUserRoleInContext(clerkCtx, string(models.UserRoleEmployee))
	if err := models.RequirePermission(clerkCtx, models.ActionCreateEntry); err != nil {
		t.Fatalf("active clerk denied: %v", err)
	}
	if _, err := models.UpdateUser(ctx, clerk.ID, &models.NewUser{
		Username: clerk.Username,
		Name:     clerk.Name,
		Password: "clerkpassword",
		IsActive: utils.NewFalse(),
		Role:     models.UserRoleEmployee,
	}); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if err := models.RequirePermission(clerkCtx, models.ActionCreateEntry); !utils.IsPermissionError(err) {
		t.Fatalf("deactivated clerk kept access: %v", err)
	}
}

func startRedisContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("distribution-test-redis-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-p", "127.0.0.1:0:6379",
		"redis:7-alpine",
	)
	if err != nil {
		t.Fatalf("start redis container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "6379/tcp")
	if err != nil {
		t.Fatalf("redis docker port: %v", err)
	}
	// wait until ready
	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "redis-cli", "ping")
		if err == nil {
			return name, port
		}
		time.Sleep(250 * time.Millisecond)
	}
	t.Fatalf("redis did not become ready")
	return "", ""
}

func startMySQLContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("distribution-test-mysql-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-e", "MYSQL_ROOT_PASSWORD=testpw",
		"-e", "MYSQL_DATABASE=distribution_test",
		"-p", "127.0.0.1:0:3306",
		"mysql:8.0",
		"--default-authentication-plugin=mysql_native_password",
	)
	if err != nil {
		t.Fatalf("start mysql container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "3306/tcp")
	if err != nil {
		t.Fatalf("mysql docker port: %v", err)
	}
	// wait until ready
	deadline := time.Now().Add(120 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "mysqladmin", "ping", "-h", "127.0.0.1", "-ptestpw", "--silent")
		if err == nil {
			return name, port
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("mysql did not become ready")
	return "", ""
}

func dockerHostPort(container, portProto string) (string, error) {
	out, err := dockerRun("port", container, portProto)
	if err != nil {
		return "", fmt.Errorf("docker port: %w: %s", err, out)
	}
	// Example: "127.0.0.1:49154\n"
	re := regexp.MustCompile(`:(\d+)`)
	m := re.FindStringSubmatch(out)
	if len(m) != 2 {
		return "", fmt.Errorf("unexpected docker port output: %q", out)
	}
	return m[1], nil
}

func dockerRmForce(container string) error {
	if strings.TrimSpace(container) == "" {
		return nil
	}
	_, err := dockerRun("rm", "-f", container)
	return err
}

func dockerRun(args ...string) (string, error) {
	cmd := exec.Command("docker", args...)
	b, err := cmd.CombinedOutput()
	return string(b), err
}
