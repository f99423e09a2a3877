// ABOUTME: AI-powered generator for the demo users and posts database.
// ABOUTME: Uses OpenAI when OPENAI_API_KEY is set and falls back to static data.

package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sashabaranov/go-openai"
)

// Generator creates fake data using OpenAI or falls back to static data.
type Generator struct {
	client *openai.Client
	useAI  bool
	model  string
}

// NewGenerator creates a generator, loading API key from .env if available.
func NewGenerator() *Generator {
	g := &Generator{}

	// Try to load .env from current dir or parent dirs
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, p := range envPaths {
		if err := godotenv.Load(p); err == nil {
			break
		}
	}

	// Also check home directory
	if home, err := os.UserHomeDir(); err == nil {
		godotenv.Load(filepath.Join(home, ".env"))
	}

	g.model = os.Getenv("OPENAI_MODEL")
	if g.model == "" {
		g.model = "gpt-5-mini"
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey != "" {
		g.client = openai.NewClient(apiKey)
		g.useAI = true
		log.Printf("OpenAI API key found, using AI-generated data with model: %s", g.model)
	} else {
		log.Println("No OPENAI_API_KEY found, using static fallback data")
	}

	return g
}

// UsesAI reports whether Generate will call OpenAI
func (g *Generator) UsesAI() bool {
	return g.useAI
}

// GeneratedData holds the demo records.
type GeneratedData struct {
	Users []UserData `json:"users"`
	Posts []PostData `json:"posts"`
}

// UserData represents a generated account.
type UserData struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Active bool   `json:"active"`
}

// PostData represents a generated blog post. AuthorEmail refers to a user.
type PostData struct {
	AuthorEmail string `json:"author_email"`
	Title       string `json:"title"`
	Body        string `json:"body"`
	Status      string `json:"status"`
}

// Generate creates users and posts. Posts always reference generated users.
func (g *Generator) Generate(ctx context.Context, numUsers, numPosts int) (*GeneratedData, error) {
	if !g.useAI {
		return generateStatic(numUsers, numPosts), nil
	}

	log.Printf("Generating %d users and %d posts via AI...", numUsers, numPosts)

	users, err := g.generateUsers(ctx, numUsers)
	if err != nil {
		log.Printf("  ✗ Failed to generate users: %v", err)
		log.Print("AI generation incomplete, falling back to static data...")
		return generateStatic(numUsers, numPosts), nil
	}
	log.Printf("  ✓ Generated %d users", len(users))

	emails := make([]string, len(users))
	for i, u := range users {
		emails[i] = u.Email
	}
	posts, err := g.generatePosts(ctx, numPosts, emails)
	if err != nil {
		log.Printf("  ✗ Failed to generate posts: %v", err)
		log.Print("AI generation incomplete, falling back to static data...")
		return generateStatic(numUsers, numPosts), nil
	}
	log.Printf("  ✓ Generated %d posts", len(posts))

	log.Print("AI generation complete!")
	return &GeneratedData{Users: users, Posts: posts}, nil
}

func (g *Generator) generateUsers(ctx context.Context, count int) ([]UserData, error) {
	prompt := fmt.Sprintf(`Generate %d realistic fake user accounts for a small publishing company's back office.
Return as JSON array with objects containing: name, email, role (one of admin, editor, author, reader), active (boolean).
Emails must be unique and use example.com or example.org domains. About 80%% should be active.`, count)

	return callOpenAI[[]UserData](ctx, g.client, g.model, prompt)
}

func (g *Generator) generatePosts(ctx context.Context, count int, authors []string) ([]PostData, error) {
	authorsJSON, err := json.Marshal(authors)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(`Generate %d realistic blog posts for a company blog.
Return as JSON array with objects containing: author_email, title, body, status (one of draft, published, archived).
author_email must be one of: %s
Each body should be 2-4 sentences. Mix topics: product news, engineering, hiring, customer stories.`, count, authorsJSON)

	return callOpenAI[[]PostData](ctx, g.client, g.model, prompt)
}

func callOpenAI[T any](ctx context.Context, client *openai.Client, model, prompt string) (T, error) {
	var result T

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a data generator. Always respond with valid JSON only, no markdown or explanation.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return result, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return result, fmt.Errorf("no response from OpenAI")
	}

	content := resp.Choices[0].Message.Content
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return result, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	return result, nil
}
