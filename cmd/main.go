package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/Kyz7/lingopress/internal/config"
	"github.com/Kyz7/lingopress/internal/database"
	"github.com/Kyz7/lingopress/internal/notify"
	"github.com/Kyz7/lingopress/internal/rbac"
	"github.com/Kyz7/lingopress/internal/server"
	"github.com/Kyz7/lingopress/internal/utils"
)

func main() {
	issueRole := flag.String("issue-token", "", "print a role token (ADMIN or EDITOR) signed with JWT_SECRET and exit")
	tokenTTL := flag.Duration("token-ttl", 24*time.Hour, "lifetime of an issued role token")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("❌ Configuration error: ", err)
	}

	if *issueRole != "" {
		role, ok := rbac.ParseRole(*issueRole)
		if !ok {
			log.Fatalf("❌ Unknown role %q", *issueRole)
		}
		token, err := rbac.IssueToken([]byte(cfg.JWTSecret), role, *tokenTTL)
		if err != nil {
			log.Fatal("❌ Failed to issue token: ", err)
		}
		fmt.Println(token)
		return
	}

	// ========== DATABASE SETUP ==========
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("❌ Database connection failed: ", err)
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		log.Fatal("❌ Migration failed: ", err)
	}
	log.Println("✅ Database migrated successfully")

	log.Println("🔍 Running SQL migrations...")
	if err := database.RunMigrations(db); err != nil {
		log.Printf("⚠️  SQL migrations failed: %v", err)
		log.Println("⚠️  Listing queries may be slower without the partial indexes")
	} else {
		log.Println("✅ SQL migrations completed successfully")
	}

	if err := database.SeedLanguages(db); err != nil {
		log.Println("⚠️  Failed to seed languages:", err)
	} else {
		log.Println("✅ Languages seeded")
	}

	// ========== STORAGE SETUP ==========
	storage, err := utils.NewLocalStorage(utils.UploadBasePath)
	if err != nil {
		log.Fatal("❌ Failed to initialize local storage: ", err)
	}
	if cfg.UseS3 {
		s3Storage, err := utils.NewS3Storage(cfg.S3Bucket, cfg.S3Region, cfg.CloudFrontURL)
		if err != nil {
			log.Println("⚠️  S3 initialization failed:", err)
			log.Println("⚠️  Falling back to local storage")
		} else {
			storage = s3Storage
			log.Printf("☁️  Using S3: %s (region: %s)", cfg.S3Bucket, cfg.S3Region)
		}
	} else {
		log.Println("💾 Using LOCAL storage mode (./uploads/)")
	}

	// ========== NOTIFICATIONS ==========
	var notifier notify.Notifier = notify.Disabled{}
	if cfg.SMTPEnabled() {
		notifier = notify.NewSMTPNotifier(notify.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		})
		log.Printf("📧 Publication emails via %s:%d", cfg.SMTPHost, cfg.SMTPPort)
	} else {
		log.Println("⚠️  SMTP_HOST not set, publication emails are disabled")
	}

	resolver := cfg.RoleResolver()
	if resolver.Bypass || resolver.DevMode || resolver.Fallback == rbac.Admin {
		log.Println("⚠️  Requests without a role signal are treated as ADMIN (set RBAC_FALLBACK_ROLE=ANON to restrict)")
	}

	// ========== START SERVER ==========
	app := server.New(server.Deps{
		DB:       db,
		Config:   cfg,
		Storage:  storage,
		Notifier: notifier,
	})

	log.Printf("🚀 lingopress starting on %s", cfg.ServerAddr)
	log.Printf("🌐 Site URL: %s", cfg.SiteURL)
	log.Printf("🗺️  Sitemaps: %v", cfg.SitemapCodes())
	log.Printf("💾 Storage Mode: %s", storage.Mode())

	if err := app.Listen(cfg.ServerAddr); err != nil {
		log.Fatal("❌ Failed to start server: ", err)
	}
}
