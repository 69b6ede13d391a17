package main

import (
	"log"
	"os"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/plugins/migratecmd"

	"backend/agent"
	"backend/extract"
	"backend/geo"
	_ "backend/migrations"
	"backend/routes"
)

func main() {
	app := pocketbase.New()

	migratecmd.MustRegister(app, app.RootCmd, migratecmd.Config{})

	apiKey := os.Getenv("OPENAI_API_KEY")
	model := os.Getenv("OPENAI_MODEL")
	summaryModel := os.Getenv("OPENAI_SUMMARY_MODEL")
	if summaryModel == "" {
		summaryModel = "gpt-5-mini"
	}

	agentClient := agent.NewClient(agent.Config{
		APIKey: apiKey,
		Model:  model,
	})
	extractor := extract.NewClient(os.Getenv("PDF_EXTRACT_API_URL"))

	geoService, err := geo.NewService()
	if err != nil {
		log.Fatal(err)
	}

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		routes.Bind(se, routes.Deps{
			Agent:        agentClient,
			Extractor:    extractor,
			Geo:          geoService,
			OpenAIAPIKey: apiKey,
			SummaryModel: summaryModel,
		})
		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
