package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/shopspring/decimal"
	"github.com/streadway/amqp"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"mtbshop/internal/handlers"
	"mtbshop/internal/middleware"
	"mtbshop/internal/models"
	"mtbshop/internal/repositories"
	"mtbshop/internal/services"
	"mtbshop/pkg/rabbitmq"

	"github.com/spf13/viper"
)

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("JWT_SECRET", "dev_jwt_secret_change_me")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.SetDefault("SEED_DATA", true)
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")
	databaseURL := viper.GetString("DATABASE_URL")
	jwtSecret := viper.GetString("JWT_SECRET")
	rabbitMQURL := viper.GetString("RABBITMQ_URL")

	// --- Database ---
	var dialector gorm.Dialector
	if databaseURL != "" {
		dialector = postgres.Open(databaseURL)
	} else {
		log.Println("DATABASE_URL not set, using local sqlite database mtbshop.db")
		dialector = sqlite.Open("mtbshop.db")
	}
	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		log.Fatalf("Failed to migrate database schema: %v", err)
	}

	// --- RabbitMQ (optional) ---
	var mqClient *rabbitmq.Client
	if rabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: rabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
	} else {
		log.Println("RABBITMQ_URL not set, order events will not be published")
	}

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	categoryRepo := repositories.NewGORMCategoryRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	txManager := repositories.NewGORMTxManager(db)

	if viper.GetBool("SEED_DATA") {
		seedData(userRepo, categoryRepo, productRepo)
	}

	// --- Services ---
	authService := services.NewAuthService(userRepo, jwtSecret)
	userService := services.NewUserService(userRepo)
	categoryService := services.NewCategoryService(categoryRepo)
	productService := services.NewProductService(productRepo, categoryRepo)
	// The order service tolerates a nil publisher when RabbitMQ is absent.
	var publisher services.EventPublisher
	if mqClient != nil {
		publisher = mqClient
	}
	orderService := services.NewOrderService(txManager, orderRepo, userRepo, publisher)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(productService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	orderHandler := handlers.NewOrderHandler(orderService)
	adminHandler := handlers.NewAdminHandler(userService)

	// --- Fiber App ---
	app := fiber.New()
	app.Use(logger.New())

	apiV1 := app.Group("/api/v1")
	authed := apiV1.Group("", middleware.AuthRequired(authService))
	admin := apiV1.Group("", middleware.AuthRequired(authService), middleware.AdminRequired())

	authHandler.RegisterRoutes(apiV1)
	productHandler.RegisterRoutes(apiV1, admin)
	categoryHandler.RegisterRoutes(apiV1, admin)
	orderHandler.RegisterRoutes(authed, admin)
	adminHandler.RegisterRoutes(admin)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Start RabbitMQ Consumer ---
	if mqClient != nil {
		go func() {
			log.Println("Starting RabbitMQ consumer for order events...")
			messageHandler := func(msg amqp.Delivery) error {
				log.Printf("Received order event (tag %d): %s", msg.DeliveryTag, string(msg.Body))
				return nil
			}
			if consumerErr := mqClient.ConsumeOrderEvents(messageHandler); consumerErr != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
			}
		}()
	}

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}

// seedData populates an empty database with the default admin account and a
// small MTB parts catalog. Safe to run repeatedly.
func seedData(userRepo repositories.UserRepository, categoryRepo repositories.CategoryRepository, productRepo repositories.ProductRepository) {
	const adminEmail = "superadmin@mtb.com"
	if _, err := userRepo.GetByEmail(adminEmail); err != nil {
		hashed, hashErr := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
		if hashErr != nil {
			log.Printf("Error hashing seed admin password: %v", hashErr)
			return
		}
		admin := models.User{
			Email:     adminEmail,
			Password:  string(hashed),
			FirstName: "Super",
			LastName:  "Admin",
			Phone:     "+56912345678",
			Address:   "Santiago, Chile",
			Role:      models.RoleAdmin,
		}
		if err := userRepo.Create(&admin); err != nil {
			log.Printf("Error seeding admin user: %v", err)
		} else {
			log.Printf("Seeded admin user: %s", adminEmail)
		}
	}

	existing, err := categoryRepo.GetAll()
	if err != nil || len(existing) > 0 {
		return
	}

	categories := []models.Category{
		{Name: "Brakes", Description: "Hydraulic and mechanical braking systems"},
		{Name: "Suspension", Description: "Forks and rear shocks"},
		{Name: "Drivetrain", Description: "Groupsets and derailleurs"},
		{Name: "Wheels", Description: "MTB wheels and rims"},
	}
	for i := range categories {
		if err := categoryRepo.Create(&categories[i]); err != nil {
			log.Printf("Error seeding category %s: %v", categories[i].Name, err)
			return
		}
	}

	products := []models.Product{
		{Name: "SRAM Code RSC", Description: "High performance hydraulic disc brakes", Price: decimal.NewFromInt(129990), Stock: 8, Brand: "SRAM", ModelName: "Code RSC", CategoryID: &categories[0].ID},
		{Name: "RockShox Pike Ultimate", Description: "160mm travel suspension fork", Price: decimal.NewFromInt(899990), Stock: 5, Brand: "RockShox", ModelName: "Pike Ultimate", CategoryID: &categories[1].ID},
		{Name: "Shimano XT M8100", Description: "12-speed drivetrain groupset", Price: decimal.NewFromInt(799990), Stock: 6, Brand: "Shimano", ModelName: "XT M8100", CategoryID: &categories[2].ID},
		{Name: "DT Swiss XM 1700", Description: "29 inch tubeless ready wheelset", Price: decimal.NewFromInt(449990), Stock: 4, Brand: "DT Swiss", ModelName: "XM 1700", CategoryID: &categories[3].ID},
	}
	for i := range products {
		if err := productRepo.Create(&products[i]); err != nil {
			log.Printf("Error seeding product %s: %v", products[i].Name, err)
		} else {
			log.Printf("Seeded product: %s (ID: %s)", products[i].Name, products[i].ID)
		}
	}
}
