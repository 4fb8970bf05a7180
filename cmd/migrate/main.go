package main

import (
	"context"
	"log"
	"os"

	"datahub-portal-be/internal/model"
	"datahub-portal-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		color.Red("Error: DB_CONNECTION_STRING is not set")
		os.Exit(1)
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		color.Red("Error: Failed to connect to database: %v", err)
		os.Exit(1)
	}

	color.Cyan("Starting GORM Migration...")

	// 3. Pre-Migration: Extensions
	color.Yellow("Step 1: Setting up Extensions...")
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		color.Red("Warn: Failed to create pgcrypto: %v. Continuing...", err)
	}

	// 4. AutoMigrate
	color.Yellow("Step 2: Running AutoMigrate...")
	if err := db.SetupJoinTable(&model.Organization{}, "Studies", &model.OrganizationStudy{}); err != nil {
		color.Red("Error: Join table setup failed: %v", err)
		os.Exit(1)
	}

	models := []interface{}{
		&model.ApprovedStudy{},
		&model.Organization{},
		&model.OrganizationStudy{},
		&model.Submission{},
		&model.SubmissionNode{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		color.Red("Error: AutoMigrate failed: %v", err)
		os.Exit(1)
	}

	// 5. Post-Migration: search support
	color.Yellow("Step 3: Creating indexes...")
	postMigrationSQL := []string{
		`CREATE INDEX IF NOT EXISTS idx_submission_nodes_node_id_lower ON submission_nodes (lower(node_id));`,
		`CREATE INDEX IF NOT EXISTS idx_approved_studies_name_lower ON approved_studies (lower(study_name));`,
	}
	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			color.Red("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}

	if os.Getenv("RECORD_STORE") == "mongo" {
		migrateMongo()
	}

	color.Green("Success: Database migration completed.")
}

func migrateMongo() {
	color.Yellow("Step 4: Ensuring Mongo indexes...")

	mdb, err := database.NewMongoDatabase(context.Background(), database.MongoConfig{
		URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		Database: getEnv("MONGO_DATABASE", "crdc-datahub"),
	})
	if err != nil {
		color.Red("Error: Failed to connect to Mongo: %v", err)
		os.Exit(1)
	}
	defer mdb.Client().Disconnect(context.Background())

	_, err = mdb.Collection("dataRecords").Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{{Key: "submissionID", Value: 1}, {Key: "nodeType", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "submissionID", Value: 1}, {Key: "nodeType", Value: 1}, {Key: "nodeID", Value: 1}}},
	})
	if err != nil {
		color.Red("Error: Failed to create Mongo indexes: %v", err)
		os.Exit(1)
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}
