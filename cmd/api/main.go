package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/robfig/cron/v3"

	httpadp "lendpeer-backend/internal/adapter/http"
	"lendpeer-backend/internal/adapter/middleware"
	"lendpeer-backend/internal/adapter/repository/mysql"
	"lendpeer-backend/internal/audit"
	"lendpeer-backend/internal/config"
	"lendpeer-backend/internal/infrastructure/cache"
	"lendpeer-backend/internal/infrastructure/db"
	"lendpeer-backend/internal/infrastructure/mail"
	"lendpeer-backend/internal/rail"
	ucAccount "lendpeer-backend/internal/usecase/account"
	ucInvite "lendpeer-backend/internal/usecase/invite"
	ucLoan "lendpeer-backend/internal/usecase/loan"
	ucNotification "lendpeer-backend/internal/usecase/notification"
	ucSettlement "lendpeer-backend/internal/usecase/settlement"
	ucSweep "lendpeer-backend/internal/usecase/sweep"
	ucTerm "lendpeer-backend/internal/usecase/term"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}
	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}

	// repositories + unit of work
	loanRepo := mysql.NewLoanRepository(gdb)
	paymentRepo := mysql.NewPaymentRepository(gdb)
	accountRepo := mysql.NewAccountRepository(gdb)
	termRepo := mysql.NewTermRepository(gdb)
	relRepo := mysql.NewRelationshipRepository(gdb)
	notifRepo := mysql.NewNotificationRepository(gdb)
	userRepo := mysql.NewUserRepository(gdb)
	uow := mysql.NewGormUoW(gdb)

	sink := audit.NewGormLogger(gdb)
	mailer := mail.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)

	rails := ucSettlement.Rails{
		Wallet: rail.NewWallet(),
		Card:   rail.NewStripeRail(cfg.StripeSecretKey),
		Payout: rail.NewPayPalRail(nil, cfg.PayPalBaseURL(), cfg.PayPalClientID, cfg.PayPalSecret, cfg.FrontendURL),
		Manual: rail.NewManual(),
	}

	settlementUC := ucSettlement.NewUsecase(paymentRepo, loanRepo, accountRepo, uow, rails, sink)
	loanUC := ucLoan.NewUsecase(loanRepo, uow, sink)
	termUC := ucTerm.NewUsecase(termRepo, uow, sink)
	inviteUC := ucInvite.NewUsecase(termRepo, userRepo, relRepo, uow, sink)
	accountUC := ucAccount.NewUsecase(accountRepo, uow)
	notifUC := ucNotification.NewUsecase(notifRepo)
	sweepUC := ucSweep.NewUsecase(loanRepo, userRepo, uow, mailer)

	// overdue sweep on its own timer
	sched := cron.New()
	if _, err := sched.AddFunc(cfg.SweepSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		if err := sweepUC.Run(ctx); err != nil {
			log.Printf("sweep: %v", err)
		}
	}); err != nil {
		log.Fatalf("cron: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())

	httpadp.RegisterRoutes(e, httpadp.Handlers{
		Base:         httpadp.NewHandler(),
		Payments:     httpadp.NewPaymentHandler(settlementUC),
		Loans:        httpadp.NewLoanHandler(loanUC),
		Accounts:     httpadp.NewAccountHandler(accountUC),
		Terms:        httpadp.NewTermHandler(termUC),
		Invites:      httpadp.NewInviteHandler(inviteUC),
		Notification: httpadp.NewNotificationHandler(notifUC),
	},
		middleware.Auth(cfg.JWTSecret),
		middleware.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second),
	)

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
