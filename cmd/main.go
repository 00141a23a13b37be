package main

import (
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"recruitment-agent/config"
	"recruitment-agent/infrastructure"
	"recruitment-agent/interfaces"
	"recruitment-agent/pipeline"
	"recruitment-agent/repository"
	"recruitment-agent/scoring"
	"recruitment-agent/worker"
)

func main() {
	cfg := config.Load()

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	// Connect DB
	db, err := infrastructure.NewMySQLConnection(cfg.DBDSN)
	if err != nil {
		log.Fatalf("❌ MySQL connection failed: %v", err)
	}

	// Connect RabbitMQ
	rmq, err := infrastructure.NewRabbitMQ(cfg.RabbitMQURL, cfg.QueueName)
	if err != nil {
		log.Fatalf("❌ RabbitMQ connection failed: %v", err)
	}
	defer rmq.Close()

	// LLM client, document extractor, mailer
	completer := infrastructure.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
	extractor := infrastructure.NewFileExtractor()
	mailer := infrastructure.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)

	engine := scoring.NewEngine(completer)
	generator := pipeline.NewQuestionGenerator(completer, cfg.OpenAIModel)

	// Task scheduler and worker consumer
	scheduler := worker.NewScheduler(rmq, db, worker.RetryPolicy{
		MaxAttempts: cfg.TaskMaxAttempts,
		Delay:       time.Duration(cfg.TaskRetryDelay) * time.Second,
	})
	tasks := worker.NewTasks(extractor, completer, engine, mailer, generator, cfg.DefaultCandidateEmail)
	tasks.RegisterAll(scheduler)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("❌ Failed to start task consumer: %v", err)
	}
	log.Info("✅ Task consumer started")

	// Setup Gin router
	router := gin.Default()
	interfaces.NewHTTPHandler(
		router,
		repository.NewRequirementRepository(db),
		repository.NewApplicationRepository(db),
		repository.NewQuestionRepository(db),
		scheduler,
		generator,
		cfg.UploadDir,
	)

	log.Infof("🚀 Server running on http://localhost:%s", cfg.HTTPPort)
	if err := router.Run(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
