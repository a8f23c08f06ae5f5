package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// LoadTestConfig holds configuration for load testing
type LoadTestConfig struct {
	BaseURL         string
	NumStudents     int
	ActivityIDs     []uuid.UUID
	ConcurrentUsers int
	RequestsPerUser int
	ActivityQuota   int
}

type loadTestRegistration struct {
	StudentID  uuid.UUID `json:"student_id"`
	ActivityID uuid.UUID `json:"activity_id"`
}

type loadTestStudent struct {
	StudentNumber string `json:"student_number"`
	FullName      string `json:"full_name"`
	GradeLevel    int    `json:"grade_level"`
}

type loadTestStudentResponse struct {
	Data struct {
		StudentID uuid.UUID `json:"student_id"`
	} `json:"data"`
}

// LoadTestResult holds the results of load testing
type LoadTestResult struct {
	TotalRequests     int
	EnrolledReqs      int
	WaitlistedReqs    int
	ConflictReqs      int
	FailedReqs        int
	AvgResponseTimeMs float64
	MaxResponseTimeMs int64
	MinResponseTimeMs int64
	ThroughputRPS     float64
	ErrorsByType      map[string]int
}

// LoadTester drives concurrent registration attempts against the API
type LoadTester struct {
	config     LoadTestConfig
	client     *http.Client
	students   []uuid.UUID
	activities []uuid.UUID
	results    LoadTestResult
	mutex      sync.Mutex
	startTime  time.Time
}

func NewLoadTester(config LoadTestConfig) *LoadTester {
	return &LoadTester{
		config: config,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		students:   make([]uuid.UUID, config.NumStudents),
		activities: config.ActivityIDs,
		results: LoadTestResult{
			ErrorsByType: make(map[string]int),
		},
	}
}

// Initialize creates the test students over the API. Activities have no
// creation endpoint, so their IDs come pre-seeded via --activity-ids.
func (lt *LoadTester) Initialize() error {
	fmt.Println("Initializing load test data...")

	// Unique per run so repeated runs do not trip the student_number constraint
	runTag := time.Now().Unix()

	url := fmt.Sprintf("%s/api/v1/students", lt.config.BaseURL)
	for i := 0; i < lt.config.NumStudents; i++ {
		body := loadTestStudent{
			StudentNumber: fmt.Sprintf("LT-%d-%05d", runTag, i+1),
			FullName:      fmt.Sprintf("Load Test Student %05d", i+1),
			GradeLevel:    1 + i%12,
		}

		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal student %d: %w", i+1, err)
		}

		resp, err := lt.client.Post(url, "application/json", bytes.NewBuffer(jsonData))
		if err != nil {
			return fmt.Errorf("failed to create student %d: %w", i+1, err)
		}

		var created loadTestStudentResponse
		decodeErr := json.NewDecoder(resp.Body).Decode(&created)
		resp.Body.Close()

		if resp.StatusCode != http.StatusCreated {
			return fmt.Errorf("create student %d returned HTTP %d", i+1, resp.StatusCode)
		}
		if decodeErr != nil {
			return fmt.Errorf("failed to decode student %d response: %w", i+1, decodeErr)
		}

		lt.students[i] = created.Data.StudentID
	}

	fmt.Printf("Created %d students targeting %d pre-seeded activities\n", len(lt.students), len(lt.activities))
	return nil
}

// RunLoadTest executes the load test
func (lt *LoadTester) RunLoadTest() {
	fmt.Printf("Starting load test with %d concurrent users...\n", lt.config.ConcurrentUsers)

	lt.startTime = time.Now()
	var wg sync.WaitGroup

	semaphore := make(chan struct{}, lt.config.ConcurrentUsers)
	totalRequests := lt.config.ConcurrentUsers * lt.config.RequestsPerUser

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)

		go func(requestID int) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			lt.simulateRegistration(requestID)
		}(i)

		// Small delay between request starts to simulate realistic arrival
		time.Sleep(10 * time.Millisecond)
	}

	wg.Wait()

	lt.calculateMetrics()
	lt.printResults()
}

func (lt *LoadTester) simulateRegistration(requestID int) {
	startTime := time.Now()

	reqBody := loadTestRegistration{
		StudentID:  lt.students[requestID%len(lt.students)],
		ActivityID: lt.activities[requestID%len(lt.activities)],
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		lt.recordError("json_marshal")
		return
	}

	url := fmt.Sprintf("%s/api/v1/enrollments", lt.config.BaseURL)
	resp, err := lt.client.Post(url, "application/json", bytes.NewBuffer(jsonData))

	responseTime := time.Since(startTime)

	if err != nil {
		lt.recordError("http_request")
		return
	}
	defer resp.Body.Close()

	lt.recordResponse(resp.StatusCode, responseTime)
}

func (lt *LoadTester) recordResponse(statusCode int, responseTime time.Duration) {
	lt.mutex.Lock()
	defer lt.mutex.Unlock()

	lt.results.TotalRequests++
	responseTimeMs := responseTime.Milliseconds()

	if lt.results.MaxResponseTimeMs < responseTimeMs {
		lt.results.MaxResponseTimeMs = responseTimeMs
	}
	if lt.results.MinResponseTimeMs == 0 || lt.results.MinResponseTimeMs > responseTimeMs {
		lt.results.MinResponseTimeMs = responseTimeMs
	}

	currentAvg := lt.results.AvgResponseTimeMs
	currentCount := float64(lt.results.TotalRequests)
	lt.results.AvgResponseTimeMs = (currentAvg*(currentCount-1) + float64(responseTimeMs)) / currentCount

	switch {
	case statusCode == http.StatusCreated:
		lt.results.EnrolledReqs++
	case statusCode == http.StatusAccepted:
		lt.results.WaitlistedReqs++
	case statusCode == http.StatusConflict:
		lt.results.ConflictReqs++
	default:
		lt.results.FailedReqs++
		lt.results.ErrorsByType[fmt.Sprintf("http_%d", statusCode)]++
	}
}

func (lt *LoadTester) recordError(errorType string) {
	lt.mutex.Lock()
	defer lt.mutex.Unlock()

	lt.results.TotalRequests++
	lt.results.FailedReqs++
	lt.results.ErrorsByType[errorType]++
}

func (lt *LoadTester) calculateMetrics() {
	totalDuration := time.Since(lt.startTime)
	lt.results.ThroughputRPS = float64(lt.results.TotalRequests) / totalDuration.Seconds()
}

func (lt *LoadTester) printResults() {
	fmt.Println("\n" + strings.Repeat("=", 80))

	fmt.Printf("Test Configuration:\n")
	fmt.Printf("  - Concurrent Users: %d\n", lt.config.ConcurrentUsers)
	fmt.Printf("  - Requests per User: %d\n", lt.config.RequestsPerUser)
	fmt.Printf("  - Total Students: %d\n", lt.config.NumStudents)
	fmt.Printf("  - Total Activities: %d\n", len(lt.activities))
	fmt.Printf("  - Activity Quota: %d seats each\n", lt.config.ActivityQuota)

	fmt.Printf("\nOverall Performance:\n")
	fmt.Printf("  - Total Requests: %d\n", lt.results.TotalRequests)
	fmt.Printf("  - Enrolled: %d (%.2f%%)\n",
		lt.results.EnrolledReqs,
		float64(lt.results.EnrolledReqs)/float64(lt.results.TotalRequests)*100)
	fmt.Printf("  - Waitlisted: %d (%.2f%%)\n",
		lt.results.WaitlistedReqs,
		float64(lt.results.WaitlistedReqs)/float64(lt.results.TotalRequests)*100)
	fmt.Printf("  - Conflicts/Duplicates: %d (%.2f%%)\n",
		lt.results.ConflictReqs,
		float64(lt.results.ConflictReqs)/float64(lt.results.TotalRequests)*100)
	fmt.Printf("  - Failed: %d (%.2f%%)\n",
		lt.results.FailedReqs,
		float64(lt.results.FailedReqs)/float64(lt.results.TotalRequests)*100)

	fmt.Printf("\nResponse Time Metrics:\n")
	fmt.Printf("  - Average: %.2f ms\n", lt.results.AvgResponseTimeMs)
	fmt.Printf("  - Minimum: %d ms\n", lt.results.MinResponseTimeMs)
	fmt.Printf("  - Maximum: %d ms\n", lt.results.MaxResponseTimeMs)

	fmt.Printf("\nThroughput:\n")
	fmt.Printf("  - Requests per Second: %.2f\n", lt.results.ThroughputRPS)

	if len(lt.results.ErrorsByType) > 0 {
		fmt.Printf("\nError Breakdown:\n")
		for errorType, count := range lt.results.ErrorsByType {
			fmt.Printf("  - %s: %d\n", errorType, count)
		}
	}

	totalSeats := len(lt.activities) * lt.config.ActivityQuota
	contentionRatio := float64(lt.results.TotalRequests) / float64(totalSeats)

	fmt.Printf("\nContention Analysis:\n")
	fmt.Printf("  - Total Available Seats: %d\n", totalSeats)
	fmt.Printf("  - Total Registration Attempts: %d\n", lt.results.TotalRequests)
	fmt.Printf("  - Contention Ratio: %.2f:1\n", contentionRatio)
}

// RunConcurrencyStressTest tests system behavior under increasing load
func (lt *LoadTester) RunConcurrencyStressTest() {
	fmt.Println("\n" + strings.Repeat("=", 80))
	fmt.Println("CONCURRENCY STRESS TEST")
	fmt.Println(strings.Repeat("=", 80))

	concurrencyLevels := []int{10, 50, 100, 200}

	for _, concurrency := range concurrencyLevels {
		fmt.Printf("\nTesting with %d concurrent users...\n", concurrency)

		originalConfig := lt.config
		lt.config.ConcurrentUsers = concurrency
		lt.config.RequestsPerUser = 5

		lt.results = LoadTestResult{
			ErrorsByType: make(map[string]int),
		}

		lt.RunLoadTest()

		time.Sleep(2 * time.Second)
		lt.config = originalConfig
	}
}

var loadtestCmd = &cobra.Command{
	Use:   "loadtest",
	Short: "Run load tests against the Activity Registration API",
	Long: `Run load tests against the Activity Registration API.
This includes:
- Concurrent registration simulation
- Contention analysis against fixed activity quotas
- Throughput and response time metrics
- Optional stress testing with increasing concurrency levels`,
	Run: func(cmd *cobra.Command, args []string) {
		runLoadTest()
	},
}

var (
	baseURL         string
	numStudents     int
	activityIDsFlag string
	concurrentUsers int
	requestsPerUser int
	activityQuota   int
	stressTest      bool
)

func init() {
	rootCmd.AddCommand(loadtestCmd)

	loadtestCmd.Flags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the registration API")
	loadtestCmd.Flags().IntVar(&numStudents, "students", 500, "Number of students to create")
	loadtestCmd.Flags().StringVar(&activityIDsFlag, "activity-ids", "", "Comma-separated IDs of pre-seeded activities (see the seed command)")
	loadtestCmd.Flags().IntVar(&concurrentUsers, "concurrent", 50, "Number of concurrent users")
	loadtestCmd.Flags().IntVar(&requestsPerUser, "requests", 10, "Number of requests per user")
	loadtestCmd.Flags().IntVar(&activityQuota, "quota", 25, "Quota per activity, used for contention analysis")
	loadtestCmd.Flags().BoolVar(&stressTest, "stress", false, "Run concurrency stress test")
}

func runLoadTest() {
	activityIDs, err := parseActivityIDs(activityIDsFlag)
	if err != nil {
		fmt.Printf("Invalid --activity-ids: %v\n", err)
		os.Exit(1)
	}

	config := LoadTestConfig{
		BaseURL:         baseURL,
		NumStudents:     numStudents,
		ActivityIDs:     activityIDs,
		ConcurrentUsers: concurrentUsers,
		RequestsPerUser: requestsPerUser,
		ActivityQuota:   activityQuota,
	}

	loadTester := NewLoadTester(config)
	if err := loadTester.Initialize(); err != nil {
		fmt.Printf("Load test initialization failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Activity Registration System Load Test")
	fmt.Println("======================================")

	loadTester.RunLoadTest()

	if stressTest {
		loadTester.RunConcurrencyStressTest()
	}
}

func parseActivityIDs(raw string) ([]uuid.UUID, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("at least one activity ID is required; run the seed command first")
	}

	parts := strings.Split(raw, ",")
	ids := make([]uuid.UUID, 0, len(parts))
	for _, part := range parts {
		id, err := uuid.Parse(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("bad activity ID %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
