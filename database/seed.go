package database

import (
	"fmt"
	"log"
	"os"

	"gorm.io/gorm"

	"github.com/sahilchouksey/uni-admin-api/model"
	"github.com/sahilchouksey/uni-admin-api/utils/auth"
)

// Seeder handles database seeding operations
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// SeedAll runs all seed functions
func (s *Seeder) SeedAll() error {
	log.Println("🌱 Starting database seeding...")

	// Run seeds in order (respecting foreign key constraints)
	if err := s.SeedAdminUser(); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	if err := s.SeedFaculties(); err != nil {
		return fmt.Errorf("failed to seed faculties: %w", err)
	}

	if err := s.SeedMajors(); err != nil {
		return fmt.Errorf("failed to seed majors: %w", err)
	}

	if err := s.SeedKnowledgeBlocks(); err != nil {
		return fmt.Errorf("failed to seed knowledge blocks: %w", err)
	}

	if err := s.SeedCourses(); err != nil {
		return fmt.Errorf("failed to seed courses: %w", err)
	}

	log.Println("✅ Database seeding completed successfully!")
	return nil
}

// SeedAdminUser creates the default admin user
func (s *Seeder) SeedAdminUser() error {
	// Check if admin already exists
	var count int64
	if err := s.db.Model(&model.User{}).Where("role = ?", "admin").Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("⏭️  Admin user already exists, skipping...")
		return nil
	}

	// Get admin credentials from environment variables
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if adminEmail == "" || adminPassword == "" {
		log.Println("⚠️  ADMIN_EMAIL and ADMIN_PASSWORD environment variables not set, skipping admin user creation")
		return nil
	}

	passwordHash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &model.User{
		Email:        adminEmail,
		PasswordHash: passwordHash,
		Name:         "System Administrator",
		Role:         "admin",
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Created admin user %s\n", adminEmail)
	return nil
}

// SeedFaculties creates the initial faculties
func (s *Seeder) SeedFaculties() error {
	var count int64
	if err := s.db.Model(&model.Faculty{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("⏭️  Faculties already exist, skipping...")
		return nil
	}

	faculties := []model.Faculty{
		{
			Name:        "Khoa Công nghệ Thông tin",
			Code:        "CNTT",
			Description: "Faculty of Information Technology",
		},
		{
			Name:        "Khoa Kinh tế",
			Code:        "KT",
			Description: "Faculty of Economics",
		},
		{
			Name:        "Khoa Ngoại ngữ",
			Code:        "NN",
			Description: "Faculty of Foreign Languages",
		},
	}

	if err := s.db.Create(&faculties).Error; err != nil {
		return err
	}

	log.Printf("✅ Created %d faculties\n", len(faculties))
	return nil
}

// SeedMajors creates sample majors under the seeded faculties
func (s *Seeder) SeedMajors() error {
	var count int64
	if err := s.db.Model(&model.Major{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("⏭️  Majors already exist, skipping...")
		return nil
	}

	var it model.Faculty
	if err := s.db.Where("code = ?", "CNTT").First(&it).Error; err != nil {
		return err
	}
	var econ model.Faculty
	if err := s.db.Where("code = ?", "KT").First(&econ).Error; err != nil {
		return err
	}

	majors := []model.Major{
		{
			Name:      "Công nghệ Thông tin",
			Code:      "7480201",
			FacultyID: &it.ID,
		},
		{
			Name:      "Khoa học Máy tính",
			Code:      "7480101",
			FacultyID: &it.ID,
		},
		{
			Name:      "Quản trị Kinh doanh",
			Code:      "7340101",
			FacultyID: &econ.ID,
		},
	}

	if err := s.db.Create(&majors).Error; err != nil {
		return err
	}

	log.Printf("✅ Created %d majors\n", len(majors))
	return nil
}

// SeedKnowledgeBlocks creates the standard curriculum blocks
func (s *Seeder) SeedKnowledgeBlocks() error {
	var count int64
	if err := s.db.Model(&model.KnowledgeBlock{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("⏭️  Knowledge blocks already exist, skipping...")
		return nil
	}

	intPtr := func(v int) *int { return &v }

	blocks := []model.KnowledgeBlock{
		{
			Name:         "Kiến thức giáo dục đại cương",
			Code:         "GDDC",
			Description:  "General education",
			MinCredits:   intPtr(30),
			MaxCredits:   intPtr(35),
			TotalCredits: intPtr(32),
		},
		{
			Name:         "Kiến thức cơ sở ngành",
			Code:         "CSN",
			Description:  "Foundation of the discipline",
			MinCredits:   intPtr(40),
			MaxCredits:   intPtr(50),
			TotalCredits: intPtr(45),
		},
		{
			Name:         "Kiến thức chuyên ngành",
			Code:         "CN",
			Description:  "Specialized knowledge",
			MinCredits:   intPtr(40),
			MaxCredits:   intPtr(48),
			TotalCredits: intPtr(43),
		},
		{
			Name:        "Thực tập và khóa luận tốt nghiệp",
			Code:        "TTKL",
			Description: "Internship and graduation thesis",
			MinCredits:  intPtr(10),
			MaxCredits:  intPtr(12),
		},
	}

	if err := s.db.Create(&blocks).Error; err != nil {
		return err
	}

	log.Printf("✅ Created %d knowledge blocks\n", len(blocks))
	return nil
}

// SeedCourses creates a starter course catalog
func (s *Seeder) SeedCourses() error {
	var count int64
	if err := s.db.Model(&model.Course{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("⏭️  Courses already exist, skipping...")
		return nil
	}

	courses := []model.Course{
		{Name: "Nhập môn lập trình", Code: "IT1110", TotalCredits: 3},
		{Name: "Cấu trúc dữ liệu và giải thuật", Code: "IT3011", TotalCredits: 4},
		{Name: "Cơ sở dữ liệu", Code: "IT3090", TotalCredits: 3},
		{Name: "Mạng máy tính", Code: "IT3080", TotalCredits: 3},
		{Name: "Toán cao cấp", Code: "MI1110", TotalCredits: 4},
		{Name: "Triết học Mác - Lênin", Code: "SSH1111", TotalCredits: 3},
		{Name: "Tiếng Anh cơ bản", Code: "FL1100", TotalCredits: 3},
	}

	if err := s.db.Create(&courses).Error; err != nil {
		return err
	}

	log.Printf("✅ Created %d courses\n", len(courses))
	return nil
}

// RunSeeds migrates and seeds the database
func RunSeeds(db *gorm.DB) error {
	seeder := NewSeeder(db)
	return seeder.SeedAll()
}
