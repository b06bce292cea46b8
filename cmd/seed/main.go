// Command seed loads the tag and ingredient catalogs from CSV files.
// Ingredient rows are "name,measurement_unit"; tag rows are "name,slug".
// Existing rows are skipped, so the command is safe to re-run.
package main

import (
	"encoding/csv"
	"flag"
	"log"
	"os"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/forkful/backend/config"
	"github.com/forkful/backend/internal/database"
	"github.com/forkful/backend/internal/model"
)

func main() {
	ingredientsPath := flag.String("ingredients", "", "path to ingredients CSV")
	tagsPath := flag.String("tags", "", "path to tags CSV")
	flag.Parse()

	if *ingredientsPath == "" && *tagsPath == "" {
		log.Fatal("nothing to do: pass -ingredients and/or -tags")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := database.WaitForDatabase(cfg, 30*time.Second); err != nil {
		log.Fatalf("Database not ready: %v", err)
	}
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if *ingredientsPath != "" {
		n, err := seedIngredients(db, *ingredientsPath)
		if err != nil {
			log.Fatalf("Failed to seed ingredients: %v", err)
		}
		log.Printf("Seeded %d ingredients", n)
	}
	if *tagsPath != "" {
		n, err := seedTags(db, *tagsPath)
		if err != nil {
			log.Fatalf("Failed to seed tags: %v", err)
		}
		log.Printf("Seeded %d tags", n)
	}
}

func seedIngredients(db *gorm.DB, path string) (int, error) {
	rows, err := readCSV(path)
	if err != nil {
		return 0, err
	}
	ingredients := make([]model.Ingredient, 0, len(rows))
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		ingredients = append(ingredients, model.Ingredient{Name: row[0], MeasurementUnit: row[1]})
	}
	result := db.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(&ingredients, 500)
	return int(result.RowsAffected), result.Error
}

func seedTags(db *gorm.DB, path string) (int, error) {
	rows, err := readCSV(path)
	if err != nil {
		return 0, err
	}
	tags := make([]model.Tag, 0, len(rows))
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		tags = append(tags, model.Tag{Name: row[0], Slug: row[1]})
	}
	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&tags)
	return int(result.RowsAffected), result.Error
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}
