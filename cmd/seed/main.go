package main

import (
	"fmt"
	"log"
	"os"

	"datahub-portal-be/internal/model"
	"datahub-portal-be/pkg/database"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const nodesPerSubmission = 150

func main() {
	// Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		color.Red("Error: DB_CONNECTION_STRING is not set")
		os.Exit(1)
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		color.Red("Error: Failed to connect to database: %v", err)
		os.Exit(1)
	}

	color.Cyan("Seeding approved studies...")
	studies := seedStudies(db)

	color.Cyan("Seeding organizations...")
	org := seedOrganization(db, studies)

	color.Cyan("Seeding submissions and records...")
	seedSubmissions(db, org, studies)

	color.Green("Seeding completed!")
}

func seedStudies(db *gorm.DB) []model.ApprovedStudy {
	studies := []model.ApprovedStudy{
		{StudyName: "Childhood Cancer Data Initiative", StudyAbbreviation: "CCDI", DbGaPID: "phs002431", ControlledAccess: true},
		{StudyName: "Integrated Canine Data Commons", StudyAbbreviation: "ICDC", DbGaPID: "phs002790"},
		{StudyName: "Clinical Trials Data Commons", StudyAbbreviation: "CTDC", DbGaPID: "phs002599", ControlledAccess: true},
	}

	for i := range studies {
		var existing model.ApprovedStudy
		if err := db.Where("study_abbreviation = ?", studies[i].StudyAbbreviation).First(&existing).Error; err == nil {
			color.Yellow("Study '%s' already exists, skipping...", studies[i].StudyAbbreviation)
			studies[i] = existing
			continue
		}
		if err := db.Create(&studies[i]).Error; err != nil {
			color.Red("Error creating study '%s': %v", studies[i].StudyAbbreviation, err)
			continue
		}
		color.Green("Created study: %s", studies[i].StudyName)
	}
	return studies
}

func seedOrganization(db *gorm.DB, studies []model.ApprovedStudy) model.Organization {
	var org model.Organization
	if err := db.Where("lower(name) = lower(?)", "Cancer Data Organization").First(&org).Error; err == nil {
		color.Yellow("Organization '%s' already exists, skipping...", org.Name)
		return org
	}

	concierge := uuid.New()
	org = model.Organization{
		Name:           "Cancer Data Organization",
		Abbreviation:   "CDO",
		Description:    "Seeded organization for local development",
		Status:         "Active",
		ConciergeId:    &concierge,
		ConciergeName:  "Data Concierge",
		ConciergeEmail: "concierge@example.org",
	}
	if err := db.Omit("Studies").Create(&org).Error; err != nil {
		color.Red("Error creating organization: %v", err)
		os.Exit(1)
	}

	links := make([]model.OrganizationStudy, 0, len(studies))
	for _, s := range studies {
		links = append(links, model.OrganizationStudy{OrganizationId: org.Id, ApprovedStudyId: s.Id})
	}
	if err := db.Create(&links).Error; err != nil {
		color.Red("Error linking studies: %v", err)
	}
	color.Green("Created organization: %s", org.Name)
	return org
}

func seedSubmissions(db *gorm.DB, org model.Organization, studies []model.ApprovedStudy) {
	submitter := uuid.New()
	statuses := []string{"New", "Passed", "Warning", "Error"}
	nodeTypes := []string{"participant", "sample", "file"}

	for _, study := range studies {
		sub := model.Submission{
			Name:             fmt.Sprintf("%s batch 1", study.StudyAbbreviation),
			StudyId:          study.Id,
			OrganizationId:   &org.Id,
			OrganizationName: org.Name,
			ConciergeName:    org.ConciergeName,
			ConciergeEmail:   org.ConciergeEmail,
			Status:           "In Progress",
			SubmitterId:      submitter,
		}
		if err := db.Create(&sub).Error; err != nil {
			color.Red("Error creating submission for %s: %v", study.StudyAbbreviation, err)
			continue
		}

		nodes := make([]model.SubmissionNode, 0, nodesPerSubmission)
		for i := 0; i < nodesPerSubmission; i++ {
			nodeType := nodeTypes[i%len(nodeTypes)]
			nodes = append(nodes, model.SubmissionNode{
				SubmissionId: sub.Id,
				NodeType:     nodeType,
				NodeId:       fmt.Sprintf("%s-%04d", nodeType, i),
				Status:       statuses[i%len(statuses)],
				Properties: datatypes.JSONMap{
					"study":      study.StudyAbbreviation,
					"age_at_dx":  20 + i%60,
					"sex":        []string{"Female", "Male"}[i%2],
					"file_count": i % 7,
				},
			})
		}
		if err := db.CreateInBatches(&nodes, 500).Error; err != nil {
			color.Red("Error creating records for %s: %v", sub.Name, err)
			continue
		}
		color.Green("Created submission %s with %d records", sub.Name, len(nodes))
	}
}
