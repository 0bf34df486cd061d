package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/sahilchouksey/uni-admin-api/model"
	"github.com/sahilchouksey/uni-admin-api/utils/cache"
)

const (
	majorsLatestProgramsCacheKey = "majors:latest-programs"
	tuitionCacheTTL              = 5 * time.Minute
)

// TuitionService computes tuition from a program's credit total and its
// price per credit. Computation is pure; the only write is SavePrice.
type TuitionService struct {
	db    *gorm.DB
	cache *cache.RedisCache // optional, nil disables caching
}

// NewTuitionService creates a new tuition service
func NewTuitionService(db *gorm.DB, redisCache *cache.RedisCache) *TuitionService {
	return &TuitionService{
		db:    db,
		cache: redisCache,
	}
}

// TuitionResult is the outcome of a single tuition computation
type TuitionResult struct {
	TotalCredits   int     `json:"tongSoTinChi"`
	TotalTuition   float64 `json:"tongHocPhi"`
	PricePerCredit float64 `json:"price_per_credit"`
}

// YearTuition aggregates tuition over a major's programs for one start year.
// Programs missing credits or a price are excluded from the sums but still
// counted in TotalPrograms.
type YearTuition struct {
	Year          int             `json:"year"`
	TotalPrograms int             `json:"total_programs"`
	TotalCredits  int             `json:"tongSoTinChi"`
	MinTuition    float64         `json:"tongHocPhiToiThieu"`
	Programs      []model.Program `json:"programs"`
}

// MajorWithLatestPrograms pairs a major with the programs of its most recent
// start year.
type MajorWithLatestPrograms struct {
	model.Major
	LatestYear *int            `json:"latest_year"`
	Programs   []model.Program `json:"programs"`
}

// ComputeTuition computes total tuition for a program. An explicit price
// overrides the one persisted on the program. Pure and repeatable.
func ComputeTuition(program *model.Program, pricePerCredit *float64) (*TuitionResult, error) {
	credits := 0
	if program.TotalCredits != nil {
		credits = *program.TotalCredits
	}
	if credits < 0 {
		return nil, fmt.Errorf("program %d has a negative credit total: %w", program.ID, ErrValidation)
	}

	price := pricePerCredit
	if price == nil {
		price = program.PricePerCredit
	}
	if price == nil || *price <= 0 {
		return nil, fmt.Errorf("price per credit must be a positive number: %w", ErrValidation)
	}

	return &TuitionResult{
		TotalCredits:   credits,
		TotalTuition:   float64(credits) * *price,
		PricePerCredit: *price,
	}, nil
}

// ComputeForProgram loads a program and computes its tuition
func (s *TuitionService) ComputeForProgram(programID uint, pricePerCredit *float64) (*TuitionResult, error) {
	var program model.Program
	if err := s.db.First(&program, programID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("program %d: %w", programID, ErrNotFound)
		}
		return nil, err
	}
	return ComputeTuition(&program, pricePerCredit)
}

// SavePrice persists a price per credit onto a program
func (s *TuitionService) SavePrice(programID uint, pricePerCredit float64) (*model.Program, error) {
	if pricePerCredit <= 0 {
		return nil, fmt.Errorf("price per credit must be a positive number: %w", ErrValidation)
	}

	var program model.Program
	if err := s.db.First(&program, programID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("program %d: %w", programID, ErrNotFound)
		}
		return nil, err
	}

	program.PricePerCredit = &pricePerCredit
	if err := s.db.Save(&program).Error; err != nil {
		return nil, err
	}

	s.invalidateCache()
	return &program, nil
}

// MajorTuitionByYear groups a major's programs by start year, restricted to
// the most recent lookbackYears distinct years present, and sums tuition per
// year. Years are returned in descending order.
func (s *TuitionService) MajorTuitionByYear(majorID uint, lookbackYears int) ([]YearTuition, error) {
	if lookbackYears <= 0 {
		lookbackYears = 5
	}

	var major model.Major
	if err := s.db.First(&major, majorID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("major %d: %w", majorID, ErrNotFound)
		}
		return nil, err
	}

	var programs []model.Program
	if err := s.db.Where("major_id = ?", majorID).Find(&programs).Error; err != nil {
		return nil, err
	}

	byYear := make(map[int][]model.Program)
	for _, p := range programs {
		byYear[p.StartYear] = append(byYear[p.StartYear], p)
	}

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	if len(years) > lookbackYears {
		years = years[:lookbackYears]
	}

	result := make([]YearTuition, 0, len(years))
	for _, year := range years {
		entry := YearTuition{
			Year:          year,
			TotalPrograms: len(byYear[year]),
			Programs:      byYear[year],
		}
		for i := range byYear[year] {
			p := &byYear[year][i]
			tuition, err := ComputeTuition(p, nil)
			if err != nil {
				// Programs missing credits or price stay out of the sums
				continue
			}
			entry.TotalCredits += tuition.TotalCredits
			entry.MinTuition += tuition.TotalTuition
		}
		result = append(result, entry)
	}

	return result, nil
}

// MajorsWithLatestPrograms returns every major together with the programs of
// its most recent start year (ties all included). Results are cached for a
// short window; staleness is acceptable for this administrative view.
func (s *TuitionService) MajorsWithLatestPrograms(ctx context.Context) ([]MajorWithLatestPrograms, error) {
	if s.cache != nil {
		var cached []MajorWithLatestPrograms
		if err := s.cache.GetJSON(ctx, majorsLatestProgramsCacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	var majors []model.Major
	if err := s.db.Order("code ASC").Find(&majors).Error; err != nil {
		return nil, err
	}

	result := make([]MajorWithLatestPrograms, 0, len(majors))
	for _, m := range majors {
		var programs []model.Program
		if err := s.db.Where("major_id = ?", m.ID).Find(&programs).Error; err != nil {
			return nil, err
		}

		entry := MajorWithLatestPrograms{
			Major:    m,
			Programs: []model.Program{},
		}

		for _, p := range programs {
			if entry.LatestYear == nil || p.StartYear > *entry.LatestYear {
				year := p.StartYear
				entry.LatestYear = &year
			}
		}
		if entry.LatestYear != nil {
			for _, p := range programs {
				if p.StartYear == *entry.LatestYear {
					entry.Programs = append(entry.Programs, p)
				}
			}
		}

		result = append(result, entry)
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, majorsLatestProgramsCacheKey, result, tuitionCacheTTL); err != nil {
			log.Printf("Warning: failed to cache latest programs: %v", err)
		}
	}

	return result, nil
}

func (s *TuitionService) invalidateCache() {
	if s.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, majorsLatestProgramsCacheKey); err != nil {
		log.Printf("Warning: failed to invalidate tuition cache: %v", err)
	}
}
