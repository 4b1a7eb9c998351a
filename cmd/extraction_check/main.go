package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"req-entities/internal/config"
	"req-entities/internal/domain"
	"req-entities/internal/llm"
	"req-entities/internal/service"
)

const (
	colorGreen  = "\033[32m"
	colorCyan   = "\033[36m"
	colorYellow = "\033[33m"
	colorReset  = "\033[0m"
)

var defaultScenarios = []string{
	"Система должна логировать ошибки",
	"Пользователь должен иметь возможность экспортировать отчёт в PDF, чтобы делиться им с коллегами.",
	"Администратор блокирует учётную запись после пяти неудачных попыток входа.",
	"Менеджер получает уведомление о новом заказе в течение минуты.",
	"Сервис ежедневно создаёт резервную копию базы данных.",
}

// checkResult resume una corrida del extractor sobre un escenario.
type checkResult struct {
	Input  string
	Record domain.EntityRecord
}

func main() {
	ctx := context.Background()
	_ = godotenv.Load()

	file := flag.String("file", "", "archivo con un requerimiento por linea (por defecto, escenarios incluidos)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	llmClient, err := llm.New(cfg.LLMProvider, cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, logger)
	if err != nil {
		log.Fatal(err)
	}

	scenarios := defaultScenarios
	if *file != "" {
		scenarios, err = loadScenarios(*file)
		if err != nil {
			log.Fatalf("cargar escenarios: %v", err)
		}
	}

	extractor := service.NewEntityExtractor(llmClient, cfg.LLMTimeout, logger)
	results := runChecks(ctx, extractor, scenarios)

	for _, r := range results {
		fmt.Printf("%s[Input]%s %s\n", colorCyan, colorReset, r.Input)
		color := colorGreen
		if r.Record.IsFallback {
			color = colorYellow
		}
		fmt.Printf("%s  actor=%q action=%q object=%q result=%q fallback=%v%s\n",
			color, r.Record.Actor, r.Record.Action, r.Record.Object, r.Record.Result, r.Record.IsFallback, colorReset)
	}

	fmt.Printf("\nModelo: %s/%s  Escenarios: %d  Fallback: %.0f%%\n",
		cfg.LLMProvider, cfg.LLMModel, len(results), fallbackRate(results)*100)
}

func runChecks(ctx context.Context, extractor service.Extractor, scenarios []string) []checkResult {
	results := make([]checkResult, 0, len(scenarios))
	for _, sc := range scenarios {
		sc = strings.TrimSpace(sc)
		if sc == "" {
			continue
		}
		results = append(results, checkResult{Input: sc, Record: extractor.Extract(ctx, sc)})
	}
	return results
}

func fallbackRate(results []checkResult) float64 {
	if len(results) == 0 {
		return 0
	}
	var fallbacks int
	for _, r := range results {
		if r.Record.IsFallback {
			fallbacks++
		}
	}
	return float64(fallbacks) / float64(len(results))
}

func loadScenarios(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" && !strings.HasPrefix(line, "#") {
			out = append(out, line)
		}
	}
	return out, scanner.Err()
}
