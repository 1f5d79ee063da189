package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

var maxInverters int = 1000
var httpHostPort string = "127.0.0.1:1080"

var rnd *rand.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))

func main() {
	resp, err := http.Get(fmt.Sprintf("http://%s/healthz", httpHostPort))
	if err != nil {
		log.Fatal("Failed to connect to HTTP server:", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Fatal("HTTP server not available")
	}

	fmt.Printf("http server verified\n")

	plantID := createPlant()
	fmt.Printf("created benchmark plant %v\n", plantID)

	var startTime time.Time
	var usedTime time.Duration

	inverterIDs := make([]uint, maxInverters)

	startTime = time.Now()
	wg := sync.WaitGroup{}
	for i := range maxInverters {
		wg.Add(1)
		go func() {
			inverterIDs[i] = createInverter(plantID)
			fmt.Printf("\rcreated inverter %v", i)
			wg.Done()
		}()
	}
	wg.Wait()
	usedTime = time.Since(startTime)

	fmt.Printf(
		"\rcreated %v inverters: used time=%v seconds, throughput=%v action/second\n",
		maxInverters, usedTime.Seconds(), float64(maxInverters)/usedTime.Seconds(),
	)

	startTime = time.Now()
	wg = sync.WaitGroup{}
	for i := range maxInverters {
		wg.Add(1)
		go func() {
			doAction(inverterIDs[i])
			wg.Done()
		}()
	}
	wg.Wait()
	usedTime = time.Since(startTime)

	fmt.Printf(
		"\n\rdid actions for %v inverters: used time=%v seconds, throughput=%v action/second\n",
		maxInverters, usedTime.Seconds(), float64(maxInverters*3)/usedTime.Seconds(),
	)
}

func rndFloat64(min, max float64, decimal int) float64 {
	val := min + rnd.Float64()*(max-min)
	multiplier := float64(math.Pow10(decimal))
	return float64(math.Round(float64(val)*float64(multiplier))) / multiplier
}

func postJSON(url string, payload map[string]any) map[string]any {
	jsonData, _ := json.Marshal(payload)
	resp, err := http.Post(url, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		panic(err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	var parsed map[string]any
	_ = json.Unmarshal(body, &parsed)
	return parsed
}

func createPlant() uint {
	parsed := postJSON(fmt.Sprintf("http://%s/plants", httpHostPort), map[string]any{
		"name":              "benchmark-plant-" + uuid.NewString(),
		"location":          "benchmark",
		"total_capacity_kw": float64(maxInverters) * 10.0,
	})
	return uint(parsed["plant_id"].(float64))
}

func createInverter(plantID uint) uint {
	parsed := postJSON(fmt.Sprintf("http://%s/inverters", httpHostPort), map[string]any{
		"serial_code": uuid.NewString(),
		"model":       "BENCH-10K",
		"capacity_kw": 10.0,
		"plant_id":    int(plantID),
	})
	return uint(parsed["inverter_id"].(float64))
}

func doAction(inverterID uint) {
	actions := []func(){
		genPostTelemetryAction(inverterID),
		genGetAlertsAction(inverterID),
		genGetTelemetryAction(inverterID),
	}
	actionNames := []string{
		"PostTelemetry",
		"GetAlerts",
		"GetTelemetry",
	}
	rnd.Shuffle(len(actions), func(i, j int) {
		actions[i], actions[j] = actions[j], actions[i]
		actionNames[i], actionNames[j] = actionNames[j], actionNames[i]
	})
	for index, action := range actions {
		action()
		fmt.Printf("\rexecuted action %v for inverter %v", actionNames[index], inverterID)
		time.Sleep(time.Duration(100+rnd.Int31n(1000)) * time.Millisecond)
	}
}

func genPostTelemetryAction(inverterID uint) func() {
	return func() {
		payload := map[string]any{
			"inverter_id":   int(inverterID),
			"generation_kw": rndFloat64(0.0, 10.0, 2),
			"temperature":   rndFloat64(15.0, 75.0, 2),
			"voltage":       rndFloat64(210.0, 240.0, 2),
			"frequency":     rndFloat64(59.5, 60.5, 2),
		}

		jsonData, _ := json.Marshal(payload)
		resp, err := http.Post(fmt.Sprintf("http://%s/telemetry", httpHostPort), "application/json", bytes.NewBuffer(jsonData))
		if err != nil {
			fmt.Printf("\nerror: %v\n", err)
			return
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			fmt.Printf("\nresponse status code != 201: %v\n", resp)
		}
	}
}

func genGetAlertsAction(inverterID uint) func() {
	return func() {
		resp, err := http.Get(fmt.Sprintf("http://%s/inverters/%d/alerts", httpHostPort, inverterID))
		if err != nil {
			fmt.Printf("\nerror: %v\n", err)
			return
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			fmt.Printf("\nresponse status code != 200: %v\n", resp)
		}
	}
}

func genGetTelemetryAction(inverterID uint) func() {
	return func() {
		resp, err := http.Get(fmt.Sprintf("http://%s/inverters/%d/telemetry?limit=5", httpHostPort, inverterID))
		if err != nil {
			fmt.Printf("\nerror: %v\n", err)
			return
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			fmt.Printf("\nresponse status code != 200: %v\n", resp)
		}
	}
}
