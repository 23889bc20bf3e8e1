package main

import (
	"log"

	"research-proposal-backend/app/cache"
	"research-proposal-backend/app/filestore"
	"research-proposal-backend/app/notifier"
	"research-proposal-backend/app/repository"
	"research-proposal-backend/app/service"
	"research-proposal-backend/config"
	"research-proposal-backend/database"
	"research-proposal-backend/routes"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {

	// =================================================================
	// LOAD CONFIG
	// =================================================================
	cfg := config.Load()

	// =================================================================
	// INIT DB (POSTGRES + MONGODB + REDIS OPSIONAL)
	// =================================================================
	dbConn, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("❌ Gagal koneksi database: %v", err)
	}

	// =================================================================
	// SEED DATA (JURUSAN/PRODI + USERS + SKEMA)
	// =================================================================
	database.RunSeeders(dbConn.Postgres)

	// =================================================================
	// INFRASTRUKTUR PENDUKUNG
	// =================================================================
	files, err := filestore.NewGridFS(dbConn.Mongo)
	if err != nil {
		log.Fatalf("❌ Gagal inisialisasi file store: %v", err)
	}

	var skemaCache cache.Cache
	var notify notifier.Notifier
	if dbConn.Redis != nil {
		skemaCache = cache.NewRedis(dbConn.Redis)
		notify = notifier.NewRedis(dbConn.Redis)
	} else {
		log.Println("⚠️  REDIS_URL kosong: pakai cache in-memory dan notifier log")
		skemaCache = cache.NewMemory()
		notify = notifier.NewLog()
	}

	// =================================================================
	// REPOSITORIES
	// =================================================================
	userRepo := repository.NewUserRepository(dbConn.Postgres)
	skemaRepo := repository.NewSkemaRepository(dbConn.Postgres)
	proposalRepo := repository.NewProposalRepository(dbConn.Postgres)
	reviewRepo := repository.NewReviewRepository(dbConn.Postgres)
	documentRepo := repository.NewDocumentRepository(dbConn.Postgres)
	announcementRepo := repository.NewAnnouncementRepository(dbConn.Postgres)
	reportRepo := repository.NewReportRepository(dbConn.Postgres)

	// =================================================================
	// SERVICES
	// =================================================================
	authService := service.NewAuthService(userRepo)
	userService := service.NewUserService(userRepo)
	skemaService := service.NewSkemaService(skemaRepo, skemaCache)
	proposalService := service.NewProposalService(proposalRepo, skemaRepo, userRepo, files, notify)
	reviewService := service.NewReviewService(reviewRepo, proposalRepo, userRepo, notify)
	documentService := service.NewDocumentService(documentRepo, proposalRepo, files)
	announcementService := service.NewAnnouncementService(announcementRepo, notify)
	reportService := service.NewReportService(reportRepo)

	// =================================================================
	// ROUTER
	// =================================================================
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
	}))

	routes.NewAuthHandler(authService, userService).SetupAuthRoutes(r)
	routes.NewUserHandler(userService).SetupUserRoutes(r)
	routes.NewSkemaHandler(skemaService).SetupSkemaRoutes(r)
	routes.NewProposalHandler(proposalService, documentService).SetupProposalRoutes(r)
	routes.NewReviewHandler(reviewService).SetupReviewRoutes(r)
	routes.NewDocumentHandler(documentService).SetupDocumentRoutes(r)
	routes.NewAnnouncementHandler(announcementService).SetupAnnouncementRoutes(r)
	routes.NewReportHandler(reportService).SetupReportRoutes(r)

	// Root endpoint (optional)
	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "SIMPPM Proposal API RUNNING",
			"version": "1.0.0",
		})
	})

	// =================================================================
	// START SERVER
	// =================================================================
	log.Println("🚀 Server running at http://localhost:" + cfg.AppPort)

	if err := r.Run(":" + cfg.AppPort); err != nil {
		log.Fatalf("❌ Gagal menjalankan server: %v", err)
	}
}
