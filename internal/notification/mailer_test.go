package notification_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/workforce-management/internal/notification"
)

func TestNotification(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Notification Suite")
}

type fakeSender struct {
	mu       sync.Mutex
	sent     []notification.Email
	failures int
}

func (f *fakeSender) Send(ctx context.Context, email notification.Email) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failures > 0 {
		f.failures--
		return errors.New("relay unavailable")
	}
	f.sent = append(f.sent, email)
	return nil
}

func (f *fakeSender) delivered() []notification.Email {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]notification.Email, len(f.sent))
	copy(out, f.sent)
	return out
}

var _ = Describe("Mailer", func() {
	var sender *fakeSender

	newMailer := func(queueSize int) *notification.Mailer {
		return notification.NewMailer(sender, notification.Config{
			MaxWorkers:   2,
			QueueSize:    queueSize,
			SendTimeout:  time.Second,
			MaxAttempts:  3,
			RetryBackoff: 10 * time.Millisecond,
		}, slog.Default())
	}

	BeforeEach(func() {
		sender = &fakeSender{}
	})

	It("should deliver an enqueued email without blocking the caller", func() {
		mailer := newMailer(10)
		defer mailer.Shutdown()

		mailer.Enqueue(notification.Email{To: "dina@example.com", Subject: "hello", Body: "hi"})

		Eventually(sender.delivered).Should(HaveLen(1))
		Expect(sender.delivered()[0].To).To(Equal("dina@example.com"))
	})

	It("should retry a failing delivery and eventually succeed", func() {
		sender.failures = 2
		mailer := newMailer(10)
		defer mailer.Shutdown()

		mailer.Enqueue(notification.Email{To: "dina@example.com", Subject: "retry", Body: "hi"})

		Eventually(sender.delivered, 2*time.Second).Should(HaveLen(1))
	})

	It("should abandon a delivery after the attempt budget", func() {
		sender.failures = 100
		mailer := newMailer(10)
		defer mailer.Shutdown()

		mailer.Enqueue(notification.Email{To: "dina@example.com", Subject: "doomed", Body: "hi"})

		Consistently(sender.delivered, 300*time.Millisecond).Should(BeEmpty())
	})

	It("should deliver many emails across the pool", func() {
		mailer := newMailer(50)
		defer mailer.Shutdown()

		for i := 0; i < 20; i++ {
			mailer.Enqueue(notification.Email{To: "dina@example.com", Subject: "bulk", Body: "hi"})
		}

		Eventually(sender.delivered, 2*time.Second).Should(HaveLen(20))
	})

	It("should stop cleanly on shutdown", func() {
		mailer := newMailer(10)
		mailer.Enqueue(notification.Email{To: "dina@example.com", Subject: "bye", Body: "hi"})
		mailer.Shutdown()
	})
})

var _ = Describe("Templates", func() {
	It("should name the project in the assignment email", func() {
		email := notification.AssignmentEmail("dina@example.com", "Dina", "Apollo")
		Expect(email.To).To(Equal("dina@example.com"))
		Expect(email.Subject).To(ContainSubstring("Apollo"))
		Expect(email.Body).To(ContainSubstring("Dina"))
		Expect(email.Body).To(ContainSubstring("Apollo"))
	})

	It("should name the project in the unassignment email", func() {
		email := notification.UnassignmentEmail("dina@example.com", "Dina", "Apollo")
		Expect(email.Subject).To(ContainSubstring("removed"))
		Expect(email.Body).To(ContainSubstring("Apollo"))
	})
})
