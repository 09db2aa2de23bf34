package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/Vladimir-spb/foodgram-backend/config"
	"github.com/Vladimir-spb/foodgram-backend/internal/database"
	"github.com/Vladimir-spb/foodgram-backend/internal/logger"
	"github.com/Vladimir-spb/foodgram-backend/internal/models"
)

type ingredientFixture struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

var defaultTags = []models.Tag{
	{Name: "Breakfast", Slug: "breakfast", Color: "#E26C2D"},
	{Name: "Lunch", Slug: "lunch", Color: "#49B64E"},
	{Name: "Dinner", Slug: "dinner", Color: "#8775D2"},
}

func main() {
	ingredientsPath := flag.String("ingredients", "data/ingredients.json", "path to the ingredient fixture")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	zlog, err := logger.New()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	db, err := database.New(cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.AutoMigrate(db); err != nil {
		zlog.Fatal("failed to migrate database", zap.Error(err))
	}

	raw, err := os.ReadFile(*ingredientsPath)
	if err != nil {
		zlog.Fatal("failed to read ingredient fixture", zap.Error(err))
	}
	var fixtures []ingredientFixture
	if err := json.Unmarshal(raw, &fixtures); err != nil {
		zlog.Fatal("failed to parse ingredient fixture", zap.Error(err))
	}

	seeded := 0
	for _, f := range fixtures {
		ingredient := models.Ingredient{Name: f.Name, MeasurementUnit: f.MeasurementUnit}
		result := db.Where("name = ? AND measurement_unit = ?", f.Name, f.MeasurementUnit).
			FirstOrCreate(&ingredient)
		if result.Error != nil {
			zlog.Fatal("failed to seed ingredient", zap.String("name", f.Name), zap.Error(result.Error))
		}
		seeded += int(result.RowsAffected)
	}
	zlog.Info("ingredients seeded", zap.Int("new", seeded), zap.Int("total", len(fixtures)))

	for _, tag := range defaultTags {
		t := tag
		if err := db.Where("slug = ?", t.Slug).FirstOrCreate(&t).Error; err != nil {
			zlog.Fatal("failed to seed tag", zap.String("slug", tag.Slug), zap.Error(err))
		}
	}
	zlog.Info("tags seeded", zap.Int("total", len(defaultTags)))
}
