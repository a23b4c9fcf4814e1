package service

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/unisched/course-scheduler-api/internal/dto"
	"github.com/unisched/course-scheduler-api/internal/models"
	appErrors "github.com/unisched/course-scheduler-api/pkg/errors"
)

type seedInstructorRepository interface {
	ListAll(ctx context.Context) ([]models.Instructor, error)
	Create(ctx context.Context, instructor *models.Instructor) error
}

type seedCourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
}

type seedRoomRepository interface {
	Create(ctx context.Context, room *models.Room) error
}

type seedDepartmentRepository interface {
	Create(ctx context.Context, department *models.Department) error
}

type seedSectionRepository interface {
	Create(ctx context.Context, section *models.Section) error
}

type seedTimeSlotRepository interface {
	Create(ctx context.Context, slot *models.TimeSlot) error
}

// SeedRepos bundles the repositories the seeder writes through.
type SeedRepos struct {
	Instructors seedInstructorRepository
	Courses     seedCourseRepository
	Rooms       seedRoomRepository
	Departments seedDepartmentRepository
	Sections    seedSectionRepository
	TimeSlots   seedTimeSlotRepository
}

// SeedService installs the demo dataset: twenty instructors, seventy courses
// across seven subject areas, twenty rooms, ten departments, the section
// roster, and the full canonical week of time slots. It refuses to run on a
// non-empty database.
type SeedService struct {
	repos  SeedRepos
	logger *zap.Logger
}

// NewSeedService constructs a SeedService.
func NewSeedService(repos SeedRepos, logger *zap.Logger) *SeedService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SeedService{repos: repos, logger: logger}
}

var seedDesignations = []string{"Professor", "Associate Professor", "Assistant Professor", "Lecturer"}

var seedInstructorNames = []string{
	"Dr. Emma Watson", "Dr. Michael Brown", "Dr. Sarah Johnson", "Dr. David Clark",
	"Dr. Jennifer Lee", "Dr. Robert Chen", "Dr. Lisa Garcia", "Dr. James Wilson",
	"Dr. Patricia Moore", "Dr. Thomas Rodriguez", "Dr. Elizabeth Lewis", "Dr. Daniel Walker",
	"Dr. Margaret Hall", "Dr. Richard Allen", "Dr. Susan Young", "Dr. Kevin Wright",
	"Dr. Karen Scott", "Dr. Charles King", "Dr. Nancy Hill", "Dr. Joseph Green",
}

var seedDepartmentNames = []string{
	"Computer Science", "Mathematics", "Physics", "Chemistry", "Biology",
	"Engineering", "Business", "Medicine", "Law", "Arts and Humanities",
}

// Ten subjects per area; the first seven departments each receive one area's
// courses, in this order.
var seedSubjects = map[string][]string{
	"CS": {
		"Introduction to Programming", "Data Structures", "Algorithms", "Database Systems",
		"Computer Networks", "Operating Systems", "Software Engineering", "Web Development",
		"Mobile Development", "Machine Learning",
	},
	"MATH": {
		"Calculus I", "Calculus II", "Linear Algebra", "Differential Equations",
		"Discrete Mathematics", "Statistics", "Probability", "Number Theory",
		"Abstract Algebra", "Real Analysis",
	},
	"PHYS": {
		"Mechanics", "Thermodynamics", "Electromagnetism", "Optics",
		"Quantum Physics", "Modern Physics", "Classical Physics", "Astrophysics",
		"Fluid Mechanics", "Relativity",
	},
	"CHEM": {
		"General Chemistry", "Organic Chemistry", "Inorganic Chemistry", "Physical Chemistry",
		"Biochemistry", "Analytical Chemistry", "Environmental Chemistry", "Medicinal Chemistry",
		"Polymer Chemistry", "Nuclear Chemistry",
	},
	"BIO": {
		"Cell Biology", "Molecular Biology", "Genetics", "Microbiology",
		"Immunology", "Ecology", "Evolution", "Anatomy and Physiology",
		"Zoology", "Botany",
	},
	"ENG": {
		"Mechanics of Materials", "Fluid Mechanics", "Thermodynamics", "Electric Circuits",
		"Digital Systems", "Control Systems", "Signal Processing", "Communications",
		"VLSI Design", "Robotics",
	},
	"BUS": {
		"Principles of Management", "Marketing", "Finance", "Accounting",
		"Economics", "Business Law", "Entrepreneurship", "International Business",
		"Human Resources", "Operations Management",
	},
}

var seedSubjectOrder = []string{"CS", "MATH", "PHYS", "CHEM", "BIO", "ENG", "BUS"}

// Run installs the demo dataset.
func (s *SeedService) Run(ctx context.Context) (*dto.SeedResponse, error) {
	existing, err := s.repos.Instructors.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to inspect database")
	}
	if len(existing) > 0 {
		return nil, appErrors.Clone(appErrors.ErrConflict, "database already contains data")
	}

	instructors := make([]models.Instructor, len(seedInstructorNames))
	for i, name := range seedInstructorNames {
		designation := seedDesignations[i%len(seedDesignations)]
		instructors[i] = models.Instructor{
			Name:        name,
			Designation: designation,
			MaxHours:    models.DefaultMaxHours(designation),
		}
		if err := s.repos.Instructors.Create(ctx, &instructors[i]); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to seed instructors")
		}
	}

	var courses []models.Course
	for _, prefix := range seedSubjectOrder {
		for i, name := range seedSubjects[prefix] {
			index := len(courses)
			course := models.Course{
				Code:         fmt.Sprintf("%s%d", prefix, (i+1)*100+index),
				Name:         name,
				MaxStudents:  30 + (index%10)*5,
				InstructorID: instructors[index%len(instructors)].ID,
			}
			if err := s.repos.Courses.Create(ctx, &course); err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to seed courses")
			}
			courses = append(courses, course)
		}
	}

	var rooms []models.Room
	for _, building := range []string{"A", "B", "C", "D"} {
		for i := 1; i <= 5; i++ {
			room := models.Room{
				Number:   fmt.Sprintf("%s%02d", building, i),
				Capacity: 30 + ((len(rooms) % 10) * 5),
			}
			if err := s.repos.Rooms.Create(ctx, &room); err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to seed rooms")
			}
			rooms = append(rooms, room)
		}
	}

	courseIDs := lo.Map(courses, func(c models.Course, _ int) string { return c.ID })
	courseChunks := lo.Chunk(courseIDs, 10)
	departments := make([]models.Department, len(seedDepartmentNames))
	for i, name := range seedDepartmentNames {
		departments[i] = models.Department{Name: name}
		if i < len(courseChunks) {
			departments[i].CourseIDs = courseChunks[i]
		}
		if err := s.repos.Departments.Create(ctx, &departments[i]); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to seed departments")
		}
	}

	years := []string{"1st Year", "2nd Year", "3rd Year", "4th Year"}
	semesters := []string{"Fall 2026", "Spring 2027"}
	var sections []models.Section
	for _, department := range departments[:len(seedSubjectOrder)] {
		for _, year := range years {
			for _, semester := range semesters {
				section := models.Section{
					Name:         fmt.Sprintf("%s %s %s", department.Name, year, semester),
					DepartmentID: department.ID,
				}
				if err := s.repos.Sections.Create(ctx, &section); err != nil {
					return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to seed sections")
				}
				sections = append(sections, section)
			}
		}
	}

	slotCount := 0
	for _, day := range models.Days {
		for _, period := range models.DefaultPeriods {
			slot := models.TimeSlot{Day: day, StartTime: period.Start, EndTime: period.End}
			if err := s.repos.TimeSlots.Create(ctx, &slot); err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to seed time slots")
			}
			slotCount++
		}
	}

	s.logger.Info("demo dataset installed",
		zap.Int("instructors", len(instructors)),
		zap.Int("courses", len(courses)),
		zap.Int("sections", len(sections)),
		zap.Int("time_slots", slotCount))

	return &dto.SeedResponse{
		Instructors: len(instructors),
		Courses:     len(courses),
		Rooms:       len(rooms),
		Departments: len(departments),
		Sections:    len(sections),
		TimeSlots:   slotCount,
	}, nil
}
