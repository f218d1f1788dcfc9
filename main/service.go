package main

import (
	"os"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"elora/analysis"
	"elora/config"
	"elora/database"
	"elora/eloraapi"
	"elora/email"
	"elora/handlers"
	"elora/metrics"
	"elora/models"
	"elora/queue"
	"elora/service"
	"elora/sms"
)

// emailDelivery adapts the SendGrid sender to the report delivery
// interface with a fixed recipient list from the environment.
type emailDelivery struct {
	sender     *email.Sender
	recipients []string
}

func (d emailDelivery) SendReport(data *models.ReportData, tanks []models.TankLevelResult) error {
	if len(d.recipients) == 0 {
		return nil
	}
	return d.sender.SendReport(d.recipients, data, tanks)
}

type smsDelivery struct {
	sender  *sms.Sender
	numbers []string
}

func (d smsDelivery) SendReport(data *models.ReportData, _ []models.TankLevelResult) error {
	if len(d.numbers) == 0 {
		return nil
	}
	return d.sender.SendReport(d.numbers, data)
}

type queueDelivery struct {
	publisher *queue.Publisher
}

func (d queueDelivery) SendReport(data *models.ReportData, tanks []models.TankLevelResult) error {
	return d.publisher.PublishReport(data, tanks)
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn(".env file not found, using system environment variables")
	}

	cfg := config.Load()
	metrics.Register()

	db, err := database.NewDatabase(cfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	api := eloraapi.NewClient(cfg.EloraAPIURL, cfg.EloraAPIKey)

	var delivery []service.ReportDelivery
	delivery = append(delivery, emailDelivery{
		sender:     email.NewSender(cfg),
		recipients: splitList(os.Getenv("REPORT_RECIPIENTS")),
	})
	delivery = append(delivery, smsDelivery{
		sender:  sms.NewSender(cfg),
		numbers: splitList(os.Getenv("REPORT_SMS_NUMBERS")),
	})
	if cfg.AMQPURL != "" {
		publisher, err := queue.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			log.WithError(err).Fatal("Failed to connect report publisher")
		}
		defer publisher.Close()
		delivery = append(delivery, queueDelivery{publisher: publisher})
	}

	svc := service.NewReportService(cfg, api, db, delivery...)
	reportHandler := handlers.NewReportHandler(svc)

	var llm analysis.Client
	if cfg.OpenAIAPIKey != "" {
		llm = analysis.NewOpenAIClient(cfg.OpenAIAPIKey)
	} else {
		log.Warn("OPENAI_API_KEY not set, fleet analysis uses the stub client")
		llm = &analysis.StubClient{}
	}
	batcher := analysis.NewBatcher(llm, cfg.AnalysisBatchSize, time.Duration(cfg.AnalysisDelayMs)*time.Millisecond)
	analysisHandler := handlers.NewAnalysisHandler(batcher, api)

	r := gin.Default()

	// CORS middleware for Gin
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}
		c.Next()
	})

	r.GET("/health", reportHandler.HealthHandler)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v3 := r.Group("/api/v3")
	{
		v3.GET("/tank-levels", reportHandler.TankLevelsHandler)
		v3.POST("/report", reportHandler.GenerateReportHandler)
		v3.POST("/analysis", analysisHandler.AnalyzeFleetHandler)
	}

	log.Infof("Starting ELORA report service on %s:%s", cfg.Host, cfg.Port)
	if err := r.Run(cfg.Host + ":" + cfg.Port); err != nil {
		log.WithError(err).Fatal("Server exited")
	}
}
