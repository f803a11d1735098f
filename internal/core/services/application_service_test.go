package services

import (
	"context"
	"testing"
	"time"

	"mfi-backoffice/internal/adapters/persistence/models"
	"mfi-backoffice/internal/core/domain"
	"mfi-backoffice/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func submitInput(productID uint, amount float64, tenure int) *SubmitApplicationInput {
	return &SubmitApplicationInput{
		FullName:      "Amina Yusuf",
		Email:         "amina@example.com",
		Phone:         "0801234567",
		DOB:           "1990-05-17",
		Gender:        "Female",
		IDNumber:      "NIN-0001",
		Address:       "12 Market Road",
		LoanProductID: productID,
		LoanAmount:    ptr(amount),
		Tenure:        ptr(tenure),
		Purpose:       "Restock shop",
		Employment:    "Self-employed",
		Income:        ptr(450_000.0),
	}
}

func TestApplicationService_Submit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := testutil.SeedProduct(t, env.db, "Micro Business Loan")

	app, err := env.applications.Submit(ctx, submitInput(product.ID, 2_000_000, 12), nil, "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, app.Status)
	assert.Equal(t, "Micro Business Loan", app.Product.ProductName)
	assert.Equal(t, fixedNow, app.CreatedAt.UTC())

	history, err := env.applications.History(ctx, app.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.HistoryCreate, history[0].Action)
	assert.Equal(t, "10.0.0.1", history[0].IPAddress)
	assert.Nil(t, history[0].PerformedBy)
}

func TestApplicationService_SubmitRejections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := testutil.SeedProduct(t, env.db, "Micro Business Loan")

	tests := []struct {
		name    string
		input   *SubmitApplicationInput
		message string
	}{
		{"amount below minimum", submitInput(product.ID, 500_000, 12), "Loan amount out of range"},
		{"amount above maximum", submitInput(product.ID, 12_000_000, 12), "Loan amount out of range"},
		{"tenure too long", submitInput(product.ID, 2_000_000, 36), "Tenure out of range"},
		{"unknown product", submitInput(999, 2_000_000, 12), "Invalid loan product"},
		{"bad dob", func() *SubmitApplicationInput {
			in := submitInput(product.ID, 2_000_000, 12)
			in.DOB = "17/05/1990"
			return in
		}(), "Invalid request"},
		{"blank name and id number", func() *SubmitApplicationInput {
			in := submitInput(product.ID, 2_000_000, 12)
			in.FullName = "   "
			in.IDNumber = "\t"
			return in
		}(), "Missing required fields"},
		{"blank employment", func() *SubmitApplicationInput {
			in := submitInput(product.ID, 2_000_000, 12)
			in.Employment = " \n "
			return in
		}(), "Missing required fields"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.applications.Submit(ctx, tt.input, nil, "")
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.message, ve.Message)
		})
	}

	_, total, err := env.applications.List(ctx, ListApplicationsInput{})
	require.NoError(t, err)
	assert.Zero(t, total, "rejected submissions are not stored")

	app := testutil.SeedApplication(t, env.db, product, "amina", 2_000_000, domain.StatusPending, fixedNow.Add(-time.Hour))
	patches := map[string]*UpdateApplicationInput{
		"blank name":       {FullName: ptr("   ")},
		"empty id number":  {IDNumber: ptr("")},
		"blank employment": {Employment: ptr("\t")},
	}
	for name, patch := range patches {
		t.Run("patch "+name, func(t *testing.T) {
			_, err := env.applications.Update(ctx, app.ID, patch, nil, "")
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, "Missing required fields", ve.Message)
		})
	}

	stored, err := env.applications.GetByID(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, "amina", stored.FullName)
	assert.Equal(t, "ID-amina", stored.IDNumber)
}

func TestApplicationService_SubmitInactiveProduct(t *testing.T) {
	env := newTestEnv(t)
	product := testutil.SeedProduct(t, env.db, "Retired Loan")
	require.NoError(t, env.db.Model(product).Update("status", domain.ProductInactive).Error)

	_, err := env.applications.Submit(context.Background(), submitInput(product.ID, 2_000_000, 12), nil, "")
	assert.True(t, domain.IsValidation(err))
}

func TestApplicationService_UpdateStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := testutil.SeedProduct(t, env.db, "Micro Business Loan")
	app := testutil.SeedApplication(t, env.db, product, "amina", 2_000_000, domain.StatusPending, fixedNow.Add(-48*time.Hour))
	officer := &domain.Session{UserID: 7, Role: domain.RoleOfficer}

	updated, err := env.applications.UpdateStatus(ctx, app.ID, "Approved", officer, "")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, updated.Status)
	assert.Equal(t, fixedNow, updated.UpdatedAt)

	select {
	case notified := <-env.notifier.sent:
		assert.Equal(t, app.ID, notified.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("decision notification not sent")
	}

	// same status again is accepted and does not notify twice
	again, err := env.applications.UpdateStatus(ctx, app.ID, "Approved", officer, "")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, again.Status)
	select {
	case <-env.notifier.sent:
		t.Fatal("unexpected second notification")
	case <-time.After(50 * time.Millisecond):
	}

	history, err := env.applications.History(ctx, app.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, domain.StatusPending, history[0].FromStatus)
	assert.Equal(t, domain.StatusApproved, history[0].ToStatus)
	require.NotNil(t, history[0].PerformedBy)
	assert.Equal(t, uint(7), *history[0].PerformedBy)

	_, err = env.applications.UpdateStatus(ctx, app.ID, "Disbursed", officer, "")
	assert.True(t, domain.IsValidation(err))

	_, err = env.applications.UpdateStatus(ctx, 999, "Approved", officer, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApplicationService_UpdateRevalidatesLoanTerms(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	micro := testutil.SeedProduct(t, env.db, "Micro Business Loan")
	app := testutil.SeedApplication(t, env.db, micro, "amina", 2_000_000, domain.StatusUnderReview, fixedNow.Add(-time.Hour))

	_, err := env.applications.Update(ctx, app.ID, &UpdateApplicationInput{LoanAmount: ptr(50_000_000.0)}, nil, "")
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Loan amount out of range", ve.Message)

	sme := testutil.SeedProduct(t, env.db, "SME Growth Loan")
	updated, err := env.applications.Update(ctx, app.ID, &UpdateApplicationInput{
		LoanProductID: ptr(sme.ID),
		Phone:         ptr(" 0809999999 "),
	}, nil, "")
	require.NoError(t, err)
	assert.Equal(t, "SME Growth Loan", updated.Product.ProductName)
	assert.Equal(t, "0809999999", updated.Phone)
	assert.Equal(t, domain.StatusUnderReview, updated.Status)

	stored, err := env.applications.GetByID(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, sme.ID, stored.Product.ProductID)
	assert.True(t, fixedNow.Equal(stored.UpdatedAt), "field edits stamp the service clock, got %s", stored.UpdatedAt)
}

func TestApplicationService_UpdateStatusOnlyPatch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := testutil.SeedProduct(t, env.db, "Micro Business Loan")
	app := testutil.SeedApplication(t, env.db, product, "amina", 2_000_000, domain.StatusPending, fixedNow.Add(-time.Hour))

	updated, err := env.applications.Update(ctx, app.ID, &UpdateApplicationInput{Status: ptr("Under Review")}, nil, "")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusUnderReview, updated.Status)

	history, err := env.applications.History(ctx, app.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.HistoryStatusChange, history[0].Action)
}

func TestApplicationService_ListAndDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := testutil.SeedProduct(t, env.db, "Micro Business Loan")
	testutil.SeedApplication(t, env.db, product, "amina", 2_000_000, domain.StatusPending, fixedNow.Add(-3*time.Hour))
	second := testutil.SeedApplication(t, env.db, product, "bola", 3_000_000, domain.StatusApproved, fixedNow.Add(-2*time.Hour))

	apps, total, err := env.applications.List(ctx, ListApplicationsInput{Status: "Approved"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, apps, 1)
	assert.Equal(t, second.ID, apps[0].ID)

	_, _, err = env.applications.List(ctx, ListApplicationsInput{Status: "Closed"})
	assert.True(t, domain.IsValidation(err))

	require.NoError(t, env.applications.Delete(ctx, second.ID))
	assert.ErrorIs(t, env.applications.Delete(ctx, second.ID), domain.ErrNotFound)
	_, err = env.applications.History(ctx, second.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApplicationService_PaymentSummary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := testutil.SeedProduct(t, env.db, "Micro Business Loan")
	app := testutil.SeedApplication(t, env.db, product, "amina", 10_000_000, domain.StatusApproved, fixedNow)

	summary, err := env.applications.PaymentSummary(ctx, app.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, "product", summary.RateSource)
	assert.Equal(t, 10.0, summary.Quote.AnnualRate)
	assert.Equal(t, 879159.0, summary.Quote.MonthlyPayment)
	assert.Equal(t, 0.008333, summary.Quote.MonthlyRate)
	require.NotNil(t, summary.ProcessingFee)
	assert.Equal(t, 150000.0, *summary.ProcessingFee)

	override, err := env.applications.PaymentSummary(ctx, app.ID, ptr(0.0))
	require.NoError(t, err)
	assert.Equal(t, "override", override.RateSource)
	assert.InDelta(t, 833333.0, override.Quote.MonthlyPayment, 0.5)

	require.NoError(t, env.db.Delete(product).Error)
	_, err = env.applications.PaymentSummary(ctx, app.ID, nil)
	assert.True(t, domain.IsValidation(err), "rate is required once the product is gone")

	orphaned, err := env.applications.PaymentSummary(ctx, app.ID, ptr(12.0))
	require.NoError(t, err)
	assert.Nil(t, orphaned.ProcessingFee)
	assert.Equal(t, "Micro Business Loan", orphaned.LoanType)
}

func TestApplicationService_Calculate(t *testing.T) {
	env := newTestEnv(t)

	quote, err := env.applications.Calculate(&CalculatorInput{
		Principal:  ptr(10_000_000.0),
		AnnualRate: ptr(10.0),
		Months:     ptr(12),
	})
	require.NoError(t, err)
	assert.Equal(t, 879159.0, quote.MonthlyPayment)
	assert.InDelta(t, quote.Raw.MonthlyPayment*12, quote.Raw.TotalPayment, 1e-6)

	_, err = env.applications.Calculate(&CalculatorInput{Principal: ptr(1.0), AnnualRate: ptr(1.0), Months: ptr(0)})
	assert.True(t, domain.IsValidation(err))
}
