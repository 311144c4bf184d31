package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

type LoadTestResult struct {
	TotalRequests       int64
	SuccessfulRequests  int64
	FailedRequests      int64
	TotalDuration       time.Duration
	AverageResponseTime time.Duration
	MinResponseTime     time.Duration
	MaxResponseTime     time.Duration
	RequestsPerSecond   float64
}

type RequestResult struct {
	Success    bool
	Duration   time.Duration
	Error      error
	StatusCode int
}

func main() {
	log.Println("Starting sleep log API load test")

	baseURL := "http://localhost:8080"
	if v := os.Getenv("BASE_URL"); v != "" {
		baseURL = v
	}
	totalRequests := 5000
	concurrentWorkers := 100

	// For quick test
	if len(os.Args) > 1 && os.Args[1] == "quick" {
		totalRequests = 50
		concurrentWorkers = 10
		log.Println("QUICK TEST MODE: 50 requests, 10 concurrent workers")
	}

	result := runLoadTest(baseURL, totalRequests, concurrentWorkers)

	printResults(result)
}

func runLoadTest(baseURL string, totalRequests, concurrentWorkers int) LoadTestResult {
	var (
		successfulRequests int64
		failedRequests     int64
		totalDuration      int64
		minResponseTime    int64 = 1<<63 - 1
		maxResponseTime    int64
		mu                 sync.Mutex
	)

	// Create channels for coordination
	requestChan := make(chan int, totalRequests)
	resultChan := make(chan RequestResult, totalRequests)

	// Start workers
	var wg sync.WaitGroup
	for i := 0; i < concurrentWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for seq := range requestChan {
				result := makeRequest(baseURL, seq)
				resultChan <- result
			}
		}(i)
	}

	// Start result collector
	go func() {
		for result := range resultChan {
			if result.Success {
				atomic.AddInt64(&successfulRequests, 1)
			} else {
				atomic.AddInt64(&failedRequests, 1)
			}

			duration := int64(result.Duration)
			atomic.AddInt64(&totalDuration, duration)

			mu.Lock()
			if duration < minResponseTime {
				minResponseTime = duration
			}
			if duration > maxResponseTime {
				maxResponseTime = duration
			}
			mu.Unlock()
		}
	}()

	// Start the test
	startTime := time.Now()
	log.Printf("Starting %d requests with %d concurrent workers...", totalRequests, concurrentWorkers)

	// Send requests
	for i := 0; i < totalRequests; i++ {
		requestChan <- i
	}

	// Close channels and wait
	close(requestChan)
	wg.Wait()
	close(resultChan)

	endTime := time.Now()
	duration := endTime.Sub(startTime)

	// Calculate results
	successful := atomic.LoadInt64(&successfulRequests)
	failed := atomic.LoadInt64(&failedRequests)
	total := atomic.LoadInt64(&totalDuration)

	mu.Lock()
	minTime := minResponseTime
	maxTime := maxResponseTime
	mu.Unlock()

	avgTime := time.Duration(0)
	if successful > 0 {
		avgTime = time.Duration(total / successful)
	}

	return LoadTestResult{
		TotalRequests:       int64(totalRequests),
		SuccessfulRequests:  successful,
		FailedRequests:      failed,
		TotalDuration:       duration,
		AverageResponseTime: avgTime,
		MinResponseTime:     time.Duration(minTime),
		MaxResponseTime:     time.Duration(maxTime),
		RequestsPerSecond:   float64(totalRequests) / duration.Seconds(),
	}
}

// makeRequest alternates between creating a sleep log and reading the
// aggregate endpoints, so both the write and the cached read path get load.
func makeRequest(baseURL string, seq int) RequestResult {
	startTime := time.Now()

	var req *http.Request
	var err error
	if seq%2 == 0 {
		night := time.Date(2024, time.Month(rand.Intn(12)+1), rand.Intn(28)+1, 22, rand.Intn(60), 0, 0, time.UTC)
		body, _ := json.Marshal(map[string]string{
			"sleep_time": night.Format("2006-01-02 15:04"),
			"wake_time":  night.Add(time.Duration(rand.Intn(10)+1) * time.Hour).Format("2006-01-02 15:04"),
		})
		req, err = http.NewRequest("POST", baseURL+"/sleep_logs", bytes.NewReader(body))
		if req != nil {
			req.Header.Set("Content-Type", "application/json")
		}
	} else {
		paths := []string{
			"/sleep_logs/average_duration",
			"/sleep_logs/longest_sleep",
			"/sleep_logs/shortest_sleep",
			"/sleep_logs/frequent_sleep_time",
			"/sleep_logs/frequent_wake_time",
		}
		req, err = http.NewRequest("GET", baseURL+paths[seq%len(paths)], nil)
	}
	if err != nil {
		return RequestResult{
			Success: false,
			Error:   err,
		}
	}

	req.Header.Set("Connection", "close")

	// Set timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	req = req.WithContext(ctx)

	// Make request
	client := &http.Client{
		Timeout: 30 * time.Second,
	}
	resp, err := client.Do(req)
	duration := time.Since(startTime)

	if err != nil {
		return RequestResult{
			Success:  false,
			Duration: duration,
			Error:    err,
		}
	}
	defer resp.Body.Close()

	_, err = io.Copy(io.Discard, resp.Body)
	if err != nil {
		return RequestResult{
			Success:    false,
			Duration:   duration,
			Error:      err,
			StatusCode: resp.StatusCode,
		}
	}

	success := resp.StatusCode >= 200 && resp.StatusCode < 300
	return RequestResult{
		Success:    success,
		Duration:   duration,
		StatusCode: resp.StatusCode,
	}
}

func printResults(result LoadTestResult) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("LOAD TEST RESULTS")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Total Requests:        %d\n", result.TotalRequests)
	fmt.Printf("Successful Requests:   %d (%.2f%%)\n", result.SuccessfulRequests,
		float64(result.SuccessfulRequests)/float64(result.TotalRequests)*100)
	fmt.Printf("Failed Requests:       %d (%.2f%%)\n", result.FailedRequests,
		float64(result.FailedRequests)/float64(result.TotalRequests)*100)
	fmt.Printf("Total Duration:        %v\n", result.TotalDuration)
	fmt.Printf("Requests Per Second:   %.2f\n", result.RequestsPerSecond)
	fmt.Printf("Average Response Time: %v\n", result.AverageResponseTime)
	fmt.Printf("Min Response Time:     %v\n", result.MinResponseTime)
	fmt.Printf("Max Response Time:     %v\n", result.MaxResponseTime)
}
