package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/use-agent/kitchenscan/config"
	"github.com/use-agent/kitchenscan/models"
	"github.com/use-agent/kitchenscan/planner"
)

func main() {
	apiURL := os.Getenv("KITCHENSCAN_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}
	apiKey := os.Getenv("KITCHENSCAN_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "KITCHENSCAN_API_KEY is required")
		os.Exit(1)
	}

	cfg := config.Load()
	validator := planner.NewValidator(cfg.Extraction.PlannerHost)

	s := server.NewMCPServer(
		"kitchenscan",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	extractTool := mcp.NewTool("extract_planner_items",
		mcp.WithDescription("Open a shared kitchen planner project in a headless browser and list the furniture items it contains, with article numbers and product lines when available."),
		mcp.WithString("planner_url",
			mcp.Required(),
			mcp.Description("The shared kitchen planner link"),
		),
		mcp.WithString("strategy",
			mcp.Description("Parsing strategy: 'fulltext-regex' (article numbers anywhere on the page) or 'scoped-dom' (rows of the items list)"),
			mcp.Enum("fulltext-regex", "scoped-dom"),
		),
		mcp.WithString("request_nonce",
			mcp.Description("Caller-supplied value bound into the extraction hash"),
		),
	)
	s.AddTool(extractTool, handleExtractItems(apiURL, apiKey))

	checkTool := mcp.NewTool("check_planner_url",
		mcp.WithDescription("Check whether a link is a valid kitchen planner project link and return its planner ID. Does not open a browser."),
		mcp.WithString("planner_url",
			mcp.Required(),
			mcp.Description("The link to check"),
		),
	)
	s.AddTool(checkTool, handleCheckURL(validator))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

// apiPost sends a POST request to the kitchenscan API and returns the response body.
func apiPost(ctx context.Context, client *http.Client, apiURL, apiKey, path string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", apiKey)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

func handleExtractItems(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 120 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		plannerURL, err := request.RequireString("planner_url")
		if err != nil {
			return mcp.NewToolResultError("planner_url is required"), nil
		}

		payload := models.ExtractRequest{
			PlannerURL:   plannerURL,
			Strategy:     request.GetString("strategy", ""),
			RequestNonce: request.GetString("request_nonce", ""),
		}

		respBody, err := apiPost(ctx, client, apiURL, apiKey, "/extract-items", payload)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("extract request failed: %v", err)), nil
		}

		var res models.ExtractionResult
		if err := json.Unmarshal(respBody, &res); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}

		if !res.Success {
			errMsg := "extraction failed"
			if res.Error != nil {
				errMsg = fmt.Sprintf("[%s] %s", res.Error.Code, res.Error.Message)
				if res.Error.Stage != "" {
					errMsg += " (stage: " + res.Error.Stage + ")"
				}
			}
			return mcp.NewToolResultError(errMsg), nil
		}

		return mcp.NewToolResultText(formatItems(&res)), nil
	}
}

func handleCheckURL(v *planner.Validator) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		plannerURL, err := request.RequireString("planner_url")
		if err != nil {
			return mcp.NewToolResultError("planner_url is required"), nil
		}

		ref, err := v.Validate(plannerURL)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Valid planner link.\nPlanner ID: %s", ref.ID)), nil
	}
}

// formatItems renders a successful extraction as a plain-text item list.
func formatItems(res *models.ExtractionResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Planner %s: %d item(s) [%s, hash %s]\n\n",
		res.PlannerID, len(res.Items), res.ExtractVersion, res.ExtractionHash)

	for i, it := range res.Items {
		fmt.Fprintf(&sb, "%d. %s", i+1, it.RawName)
		if it.ArticleNumber != "" {
			fmt.Fprintf(&sb, " | article %s", it.ArticleNumber)
		}
		if it.Gamme != "" {
			fmt.Fprintf(&sb, " | %s", it.Gamme)
		}
		if it.Qty > 1 {
			fmt.Fprintf(&sb, " | x%d", it.Qty)
		}
		sb.WriteString("\n")
	}

	if len(res.Items) == 0 {
		sb.WriteString("No items found.\n")
	}
	return sb.String()
}
