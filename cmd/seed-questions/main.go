package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/certpath/certpath-backend/internal/config"
	"github.com/certpath/certpath-backend/internal/database"
	"github.com/certpath/certpath-backend/internal/logger"
	"github.com/certpath/certpath-backend/internal/model"
	"github.com/certpath/certpath-backend/internal/repository"
	"github.com/certpath/certpath-backend/internal/service"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	moduleRepo := repository.NewModuleRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	questionService := service.NewQuestionService(moduleRepo, questionRepo)

	fmt.Println("=== Seeding Sample Question Bank ===")

	moduleName := "Cloud Fundamentals"

	// Reuse the module if a previous seed run already created it.
	var module model.CertModule
	err = pool.QueryRow(ctx,
		"SELECT id, name, description FROM modules WHERE name = $1", moduleName,
	).Scan(&module.ID, &module.Name, &module.Description)

	if err != nil {
		if err == pgx.ErrNoRows {
			fmt.Printf("Module %q not found. Creating it...\n", moduleName)
			module = model.CertModule{
				Name:        moduleName,
				Description: "Core cloud computing concepts: compute, storage, networking, and shared responsibility.",
			}
			if err := questionService.CreateModule(ctx, &module); err != nil {
				log.Fatal().Err(err).Msg("Failed to create module")
			}
			fmt.Printf("Created module with ID: %s\n", module.ID)
		} else {
			log.Fatal().Err(err).Msg("Failed to check existing module")
		}
	} else {
		fmt.Printf("Found existing module with ID: %s\n", module.ID)
	}

	type seedQuestion struct {
		text       string
		category   string
		difficulty model.Difficulty
		correct    string
		options    map[string]string
	}

	questions := []seedQuestion{
		{
			text:       "Which service model gives the customer the most control over the operating system?",
			category:   "Service Models",
			difficulty: model.DifficultyEasy,
			correct:    "A",
			options: map[string]string{
				"A": "Infrastructure as a Service (IaaS)",
				"B": "Platform as a Service (PaaS)",
				"C": "Software as a Service (SaaS)",
				"D": "Function as a Service (FaaS)",
			},
		},
		{
			text:       "In the shared responsibility model, who is responsible for patching the hypervisor?",
			category:   "Security",
			difficulty: model.DifficultyEasy,
			correct:    "B",
			options: map[string]string{
				"A": "The customer",
				"B": "The cloud provider",
				"C": "A third-party auditor",
				"D": "Responsibility is always shared equally",
			},
		},
		{
			text:       "Which storage class is most cost-effective for data accessed once a year?",
			category:   "Storage",
			difficulty: model.DifficultyMedium,
			correct:    "D",
			options: map[string]string{
				"A": "Standard",
				"B": "Infrequent Access",
				"C": "One Zone Infrequent Access",
				"D": "Archive",
			},
		},
		{
			text:       "What does horizontal scaling mean?",
			category:   "Compute",
			difficulty: model.DifficultyEasy,
			correct:    "C",
			options: map[string]string{
				"A": "Upgrading an instance to a larger machine type",
				"B": "Moving workloads to a different region",
				"C": "Adding more instances behind a load balancer",
				"D": "Increasing disk capacity on an existing instance",
			},
		},
		{
			text:       "A VPC subnet with no route to an internet gateway is best described as:",
			category:   "Networking",
			difficulty: model.DifficultyMedium,
			correct:    "B",
			options: map[string]string{
				"A": "A public subnet",
				"B": "A private subnet",
				"C": "A peered subnet",
				"D": "An isolated availability zone",
			},
		},
		{
			text:       "Which consistency model do most object stores provide for new object writes?",
			category:   "Storage",
			difficulty: model.DifficultyHard,
			correct:    "A",
			options: map[string]string{
				"A": "Strong read-after-write consistency",
				"B": "Eventual consistency only",
				"C": "Causal consistency",
				"D": "Session consistency",
			},
		},
		{
			text:       "What is the primary benefit of infrastructure as code?",
			category:   "Operations",
			difficulty: model.DifficultyEasy,
			correct:    "C",
			options: map[string]string{
				"A": "It eliminates the need for version control",
				"B": "It removes all human error from deployments",
				"C": "Environments become reproducible and reviewable",
				"D": "It makes infrastructure free to run",
			},
		},
		{
			text:       "Which metric best indicates that an autoscaling group should add capacity?",
			category:   "Compute",
			difficulty: model.DifficultyMedium,
			correct:    "D",
			options: map[string]string{
				"A": "Total disk usage across the fleet",
				"B": "Number of deployed instances",
				"C": "Age of the oldest instance",
				"D": "Sustained CPU utilization above target",
			},
		},
		{
			text:       "A workload must survive the loss of an entire region. Which design satisfies this?",
			category:   "Architecture",
			difficulty: model.DifficultyHard,
			correct:    "B",
			options: map[string]string{
				"A": "Multiple instances in one availability zone",
				"B": "Active-active deployment across two regions",
				"C": "A larger instance type with redundant disks",
				"D": "Daily backups stored in the same region",
			},
		},
		{
			text:       "Which statement about serverless functions is true?",
			category:   "Compute",
			difficulty: model.DifficultyMedium,
			correct:    "A",
			options: map[string]string{
				"A": "The provider manages scaling and the execution environment",
				"B": "They require the customer to patch the runtime OS",
				"C": "They run indefinitely without time limits",
				"D": "They cannot access other cloud services",
			},
		},
	}

	labels := []string{"A", "B", "C", "D"}

	successCount := 0
	for i, sq := range questions {
		options := make([]model.Option, 0, len(labels))
		for _, label := range labels {
			options = append(options, model.Option{
				Label:     label,
				Text:      sq.options[label],
				IsCorrect: label == sq.correct,
			})
		}

		q := &model.Question{
			ModuleID:   module.ID,
			Text:       sq.text,
			Category:   sq.category,
			Difficulty: sq.difficulty,
			Active:     true,
			Options:    options,
		}

		if err := questionService.CreateQuestion(ctx, q); err != nil {
			fmt.Printf("Error creating question %d: %v\n", i+1, err)
		} else {
			successCount++
		}
	}

	fmt.Printf("\nSeed completed! Successfully added %d/%d questions.\n", successCount, len(questions))
}
