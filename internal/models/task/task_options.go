package task

// Patch содержит только переданные клиентом поля; nil означает "не менять"
type Patch struct {
	Name     *string
	DueDate  *Date
	Status   *Status
	Priority *Priority
	IsActive *bool
}

func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.DueDate == nil && p.Status == nil && p.Priority == nil && p.IsActive == nil
}

type PatchOption func(*Patch)

func WithName(name *string) PatchOption {
	if name == nil {
		return nil
	}
	return func(p *Patch) {
		p.Name = name
	}
}

func WithDueDate(dueDate *Date) PatchOption {
	if dueDate == nil {
		return nil
	}
	return func(p *Patch) {
		p.DueDate = dueDate
	}
}

func WithStatus(status *Status) PatchOption {
	if status == nil {
		return nil
	}
	return func(p *Patch) {
		p.Status = status
	}
}

func WithPriority(priority *Priority) PatchOption {
	if priority == nil {
		return nil
	}
	return func(p *Patch) {
		p.Priority = priority
	}
}

func WithIsActive(isActive *bool) PatchOption {
	if isActive == nil {
		return nil
	}
	return func(p *Patch) {
		p.IsActive = isActive
	}
}

// BuildPatch пропускает nil-опции, которые возвращаются для непереданных полей
func BuildPatch(options ...PatchOption) Patch {
	var p Patch
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&p)
	}
	return p
}

// Apply переносит переданные поля патча на задачу
func (p Patch) Apply(t *Task) {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.IsActive != nil {
		t.IsActive = *p.IsActive
	}
}
