package domain

import "context"

// RequirementRepository is the persistence contract for requirement
// records. Read-only from the pipeline's point of view; the write
// operations serve the admin upload and edit endpoints.
type RequirementRepository interface {
	GetByID(ctx context.Context, id uint) (*Requirement, error)
	GetByTitle(ctx context.Context, title string) ([]Requirement, error)
	List(ctx context.Context, titleFilter string) ([]Requirement, error)
	Create(ctx context.Context, req *Requirement) error
	FindBySignature(ctx context.Context, req Requirement) (*Requirement, error)
	Update(ctx context.Context, id uint, fields map[string]interface{}) error
	Delete(ctx context.Context, id uint) error
	DeleteAll(ctx context.Context) error
}

// ApplicationRepository is the persistence contract for durable
// application records.
type ApplicationRepository interface {
	FindExisting(ctx context.Context, name, email, title string, statuses []string) (*Application, error)
	Insert(ctx context.Context, app *Application) error
	GetByID(ctx context.Context, id uint) (*Application, error)
	GetByIDWithStatus(ctx context.Context, id uint, status string) (*Application, error)
	GetByUsername(ctx context.Context, username string) ([]Application, error)
	List(ctx context.Context, titleFilter string) ([]Application, error)
	ListByStatus(ctx context.Context, status, nameFilter string) ([]Application, error)
	UpdateStatus(ctx context.Context, id uint, status, note string) error
	Update(ctx context.Context, id uint, fields map[string]interface{}) error
	Delete(ctx context.Context, id uint) error
}

// QuestionRepository manages follow-up questions attached to an
// application. Replace removes any previous set for the parent before
// inserting the new one.
type QuestionRepository interface {
	ReplaceForApplication(ctx context.Context, applicationID uint, questions []Question) error
	ListByApplication(ctx context.Context, applicationID uint) ([]Question, error)
	GetByID(ctx context.Context, id uint) (*Question, error)
	Edit(ctx context.Context, id uint, newText, editedBy string) error
	DeleteForApplication(ctx context.Context, applicationID uint) error
}
