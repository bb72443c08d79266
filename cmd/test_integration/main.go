package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"time"
)

const (
	baseURL = "http://localhost:8080"
)

const sampleDocument = `Memo, March 3, 2021.
Jane Doe of Acme Corp met John Smith in Lisbon to discuss the merger.
The board meeting followed on April 12, 2021.`

func main() {
	// Wait for server to start
	time.Sleep(2 * time.Second)

	fmt.Println("Starting Integration Test...")

	fmt.Println("1. Resetting session...")
	if _, ok := sendRequest("POST", "/reset", nil, ""); !ok {
		fail("Reset")
	}

	fmt.Println("2. Uploading document...")
	body, contentType := multipartFile("memo.txt", sampleDocument)
	resp, ok := sendRequest("POST", "/files", body, contentType)
	if !ok {
		fail("Upload")
	}
	var uploaded struct {
		Files []struct {
			ID string `json:"id"`
		} `json:"files"`
	}
	if err := json.Unmarshal(resp, &uploaded); err != nil || len(uploaded.Files) != 1 {
		fail("Upload response")
	}
	fmt.Println("PASSED: Upload")

	fmt.Println("3. Waiting for analysis...")
	if status := waitForAnalysis(uploaded.Files[0].ID, 2*time.Minute); status != "analyzed" {
		fmt.Printf("File ended in status %q\n", status)
		fail("Analysis")
	}
	fmt.Println("PASSED: Analysis")

	for _, endpoint := range []string{"/entities", "/board?communities=true", "/timeline", "/export"} {
		fmt.Printf("4. GET %s\n", endpoint)
		if _, ok := sendRequest("GET", endpoint, nil, ""); !ok {
			fail(endpoint)
		}
	}

	fmt.Println("5. Asking the assistant...")
	chat, _ := json.Marshal(map[string]string{"query": "Who met in Lisbon?"})
	if _, ok := sendRequest("POST", "/chat", bytes.NewReader(chat), "application/json"); !ok {
		fail("Chat")
	}
	fmt.Println("PASSED: all steps")
}

func fail(step string) {
	fmt.Printf("FAILED: %s\n", step)
	os.Exit(1)
}

func multipartFile(name, content string) (io.Reader, string) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, _ := mw.CreateFormFile("files", name)
	_, _ = part.Write([]byte(content))
	_ = mw.Close()
	return body, mw.FormDataContentType()
}

func waitForAnalysis(id string, timeout time.Duration) string {
	deadline := time.Now().Add(timeout)
	status := ""
	for time.Now().Before(deadline) {
		resp, ok := sendRequest("GET", "/files/"+id, nil, "")
		if !ok {
			return ""
		}
		var file struct {
			Status string `json:"status"`
		}
		_ = json.Unmarshal(resp, &file)
		status = file.Status
		if status == "analyzed" || status == "error" {
			return status
		}
		time.Sleep(time.Second)
	}
	return status
}

func sendRequest(method, endpoint string, body io.Reader, contentType string) ([]byte, bool) {
	req, err := http.NewRequest(method, baseURL+endpoint, body)
	if err != nil {
		fmt.Printf("Error creating request: %v\n", err)
		return nil, false
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error sending request: %v\n", err)
		return nil, false
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		fmt.Printf("Request failed with status %d: %s\n", resp.StatusCode, string(respBody))
		return nil, false
	}

	fmt.Printf("Response: %.200s\n", string(respBody))
	return respBody, true
}
