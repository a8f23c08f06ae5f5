package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"activity-registration/internal/config"
	domain "activity-registration/internal/domain/enrollment"
	"activity-registration/internal/infrastructure/database"
	"activity-registration/pkg/logger"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// Seeded activities rotate through two afternoon blocks across the five
// weekdays, so some pairs share a slot and registrations can collide.
var seedBlocks = [][2]string{
	{"16:00", "17:30"},
	{"17:30", "19:00"},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed demo activities for load testing",
	Long: `Seed demo activities directly into the database.
Activities cannot be created over HTTP, so the load tester needs
pre-seeded rows; this command creates them and prints the activity IDs
to pass to the loadtest command.`,
	Run: func(cmd *cobra.Command, args []string) {
		runSeed()
	},
}

var (
	seedNumActivities int
	seedQuota         int
)

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().IntVar(&seedNumActivities, "activities", 20, "Number of activities to create")
	seedCmd.Flags().IntVar(&seedQuota, "quota", 25, "Quota per activity")
}

func runSeed() {
	cfg := config.Get()

	dbConfig := database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.Username,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.Name,
		SSLMode:  cfg.Database.SSLMode,
	}

	db, err := database.NewConnection(dbConfig)
	if err != nil {
		logger.Error("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	opens := time.Now().Add(-time.Hour)
	closes := time.Now().Add(30 * 24 * time.Hour)

	ids := make([]string, 0, seedNumActivities)
	for i := 0; i < seedNumActivities; i++ {
		block := seedBlocks[i%len(seedBlocks)]
		startMinute, err := domain.ParseClock(block[0])
		if err != nil {
			logger.Error("Bad seed slot %q: %v", block[0], err)
			os.Exit(1)
		}
		endMinute, err := domain.ParseClock(block[1])
		if err != nil {
			logger.Error("Bad seed slot %q: %v", block[1], err)
			os.Exit(1)
		}

		schedule := domain.ActivitySchedule{
			ScheduleID:  uuid.New(),
			DayOfWeek:   1 + i%5,
			StartMinute: startMinute,
			EndMinute:   endMinute,
			Active:      true,
		}

		activity := &domain.Activity{
			ActivityID:        uuid.New(),
			Name:              fmt.Sprintf("Demo Activity %03d", i+1),
			Category:          "demo",
			Venue:             fmt.Sprintf("Gym %d", 1+i%4),
			ScheduleText:      schedule.Slot(),
			Quota:             seedQuota,
			RegistrationStart: &opens,
			RegistrationEnd:   &closes,
			Status:            domain.ActivityActive,
			Schedules:         []domain.ActivitySchedule{schedule},
		}

		if err := db.Create(activity).Error; err != nil {
			logger.Error("Failed to seed activity %d: %v", i+1, err)
			os.Exit(1)
		}
		ids = append(ids, activity.ActivityID.String())
	}

	fmt.Printf("Seeded %d activities with quota %d each\n\n", len(ids), seedQuota)
	fmt.Printf("Run the load test with:\n  loadtest --activity-ids %s\n", strings.Join(ids, ","))
}
