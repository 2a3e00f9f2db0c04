package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"coinstore/internal/domain"
	"coinstore/internal/logger"
	"coinstore/internal/models"
	"coinstore/internal/repository"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

type fakeCloud struct {
	uploads   []string
	deleted   []string
	deleteErr error
}

func (c *fakeCloud) UploadImage(_ context.Context, file io.Reader, folder, publicID string) (string, string, error) {
	if _, err := io.ReadAll(file); err != nil {
		return "", "", err
	}
	url := "https://res.cloudinary.com/demo/image/upload/v1/" + folder + "/" + publicID + ".jpg"
	c.uploads = append(c.uploads, url)
	return url, url, nil
}

func (c *fakeCloud) DeleteByURL(_ context.Context, url string) error {
	c.deleted = append(c.deleted, url)
	return c.deleteErr
}

func paymentIn(direction string, method domain.Method, amount, date string) PaymentInput {
	return PaymentInput{Direction: direction, Method: method, Amount: dec(amount), PlayerName: "p", Date: date}
}

func TestSummarizePayments(t *testing.T) {
	t.Parallel()
	list := []models.CashPayment{
		{Direction: domain.PaymentDirectionIn, Method: domain.MethodCashApp, Amount: dec("100")},
		{Direction: domain.PaymentDirectionIn, Method: domain.MethodChime, Amount: dec("20.50")},
		{Direction: domain.PaymentDirectionOut, Method: domain.MethodCashApp, Amount: dec("30")},
	}
	s := SummarizePayments(list)
	require.Equal(t, 3, s.Count)
	requireDec(t, "120.5", s.In)
	requireDec(t, "30", s.Out)
	requireDec(t, "90.5", s.Net)
	requireDec(t, "70", s.ByMethod[domain.MethodCashApp].Net)
	requireDec(t, "0", s.ByMethod[domain.MethodPayPal].Net)
	require.Len(t, s.ByMethod, len(domain.Methods))
}

func TestPaymentServiceFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cloud := &fakeCloud{}
	svc := NewPaymentService(repository.NewPaymentRepository(f.db), cloud, "receipts", repository.NewAuditLogRepository(f.db), logger.Discard())

	_, err := svc.Create(ctx, staff, paymentIn("sideways", domain.MethodCashApp, "1", "2024-08-05"))
	require.True(t, domain.IsValidation(err))

	p, err := svc.Create(ctx, staff, paymentIn(domain.PaymentDirectionIn, domain.MethodCashApp, "50", "2024-08-05"))
	require.NoError(t, err)
	require.Equal(t, "ann", p.Username)
	_, err = svc.Create(ctx, manager, paymentIn(domain.PaymentDirectionOut, domain.MethodVenmo, "20", "2024-08-06"))
	require.NoError(t, err)

	other := Actor{UserID: 9, Username: "zed", Role: domain.RoleStaff}
	_, err = svc.Update(ctx, other, p.ID, paymentIn(domain.PaymentDirectionIn, domain.MethodCashApp, "55", "2024-08-05"))
	require.ErrorIs(t, err, domain.ErrForbidden)

	sum, err := svc.Summary(ctx, repository.PaymentFilter{DateFrom: "2024-08-05", DateTo: "2024-08-05"})
	require.NoError(t, err)
	require.Equal(t, 1, sum.Count)
	requireDec(t, "50", sum.Net)

	p, err = svc.AttachReceipt(ctx, staff, p.ID, bytes.NewBufferString("img"))
	require.NoError(t, err)
	first := p.ReceiptURL
	require.Contains(t, first, "receipts/2024-08-05/rcpt_")

	p, err = svc.AttachReceipt(ctx, staff, p.ID, bytes.NewBufferString("img2"))
	require.NoError(t, err)
	require.NotEqual(t, first, p.ReceiptURL)
	require.Equal(t, []string{first}, cloud.deleted)
}

func TestAttachReceiptUnconfigured(t *testing.T) {
	f := newFixture(t)
	svc := NewPaymentService(repository.NewPaymentRepository(f.db), nil, "", nil, logger.Discard())
	_, err := svc.AttachReceipt(context.Background(), staff, "any", bytes.NewBufferString("x"))
	require.ErrorIs(t, err, domain.ErrUnconfigured)
}

func TestReplacedReceiptDeleteFailureIsLogged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cloud := &fakeCloud{deleteErr: errors.New("cloudinary down")}
	log, hook := logtest.NewNullLogger()
	svc := NewPaymentService(repository.NewPaymentRepository(f.db), cloud, "receipts", nil, log)

	p, err := svc.Create(ctx, staff, paymentIn(domain.PaymentDirectionIn, domain.MethodCashApp, "50", "2024-08-05"))
	require.NoError(t, err)
	p, err = svc.AttachReceipt(ctx, staff, p.ID, bytes.NewBufferString("img"))
	require.NoError(t, err)
	first := p.ReceiptURL
	require.Empty(t, hook.AllEntries())

	p, err = svc.AttachReceipt(ctx, staff, p.ID, bytes.NewBufferString("img2"))
	require.NoError(t, err)
	require.NotEqual(t, first, p.ReceiptURL)
	require.Equal(t, []string{first}, cloud.deleted)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	require.Equal(t, logrus.WarnLevel, entry.Level)
	require.Equal(t, first, entry.Data["url"])
	require.EqualError(t, entry.Data[logrus.ErrorKey].(error), "cloudinary down")
}
