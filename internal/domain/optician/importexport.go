package optician

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BranchRef is the branch slice import/export needs: resolving names to ids
// and back.
type BranchRef struct {
	ID   uuid.UUID
	Name string
}

// BranchDirectory lists known branches. Satisfied by the catalog through an
// adapter wired in cmd/booking-server.
type BranchDirectory interface {
	Branches(ctx context.Context) ([]BranchRef, error)
}

// Porter imports and exports the optician roster.
type Porter struct {
	svc      *Service
	branches BranchDirectory
}

func NewPorter(svc *Service, branches BranchDirectory) *Porter {
	return &Porter{svc: svc, branches: branches}
}

// Import upserts opticians from parsed import rows, keyed by email. Rows
// carry name, email, phone, branchName, and optional specialty; branchName
// is matched case-insensitively against known branches. Row numbers in the
// result are 1-based.
func (p *Porter) Import(ctx context.Context, rows []map[string]interface{}) (*ImportResult, error) {
	branches, err := p.branches.Branches(ctx)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]BranchRef, len(branches))
	for _, b := range branches {
		byName[strings.ToLower(b.Name)] = b
	}

	result := &ImportResult{Total: len(rows), Errors: []ImportError{}}

	for i, row := range rows {
		o, err := p.rowToOptician(row, byName)
		if err != nil {
			result.Errors = append(result.Errors, ImportError{Row: i + 1, Error: err.Error(), Data: row})
			continue
		}

		existing, err := p.svc.GetByEmail(ctx, o.Email)
		if err != nil {
			result.Errors = append(result.Errors, ImportError{Row: i + 1, Error: err.Error(), Data: row})
			continue
		}

		if existing != nil {
			existing.Name = o.Name
			existing.Phone = o.Phone
			existing.Specialty = o.Specialty
			existing.BranchID = o.BranchID
			if err := p.svc.Update(ctx, existing); err != nil {
				result.Errors = append(result.Errors, ImportError{Row: i + 1, Error: err.Error(), Data: row})
				continue
			}
			result.Updated++
		} else {
			o.IsActive = true
			if err := p.svc.Create(ctx, o); err != nil {
				result.Errors = append(result.Errors, ImportError{Row: i + 1, Error: err.Error(), Data: row})
				continue
			}
			result.Created++
		}
	}

	return result, nil
}

func (p *Porter) rowToOptician(row map[string]interface{}, byName map[string]BranchRef) (*Optician, error) {
	name := stringField(row, "name")
	email := stringField(row, "email")
	phone := stringField(row, "phone")
	branchName := stringField(row, "branchName")

	if name == "" || email == "" || phone == "" || branchName == "" {
		return nil, fmt.Errorf("missing required fields: name, email, phone, or branchName")
	}
	if !emailPattern.MatchString(email) {
		return nil, fmt.Errorf("invalid email format")
	}

	branch, ok := byName[strings.ToLower(branchName)]
	if !ok {
		return nil, fmt.Errorf("branch not found: %s", branchName)
	}

	o := &Optician{
		Name:     name,
		Email:    email,
		Phone:    phone,
		BranchID: branch.ID,
	}
	if specialty := stringField(row, "specialty"); specialty != "" {
		o.Specialty = &specialty
	}
	return o, nil
}

func stringField(row map[string]interface{}, key string) string {
	v, ok := row[key]
	if !ok || v == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprintf("%v", v))
}

var dayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// ExportRecord is one optician in an export, with the branch denormalized
// and schedules optionally attached.
type ExportRecord struct {
	Optician
	BranchName   string          `json:"branchName"`
	WorkingHours []*WorkingHours `json:"workingHours,omitempty"`
	TimeOff      []*TimeOff      `json:"timeOff,omitempty"`
}

// Export returns all opticians ordered by name. With includeSchedules the
// weekly template and future time off are attached to each record.
func (p *Porter) Export(ctx context.Context, includeSchedules bool) ([]*ExportRecord, error) {
	branches, err := p.branches.Branches(ctx)
	if err != nil {
		return nil, err
	}
	nameByID := make(map[uuid.UUID]string, len(branches))
	for _, b := range branches {
		nameByID[b.ID] = b.Name
	}

	opticians, err := p.svc.List(ctx, Filter{})
	if err != nil {
		return nil, err
	}

	records := make([]*ExportRecord, 0, len(opticians))
	now := time.Now()
	for _, o := range opticians {
		rec := &ExportRecord{Optician: *o, BranchName: nameByID[o.BranchID]}

		if includeSchedules {
			hours, err := p.svc.ListWorkingHours(ctx, o.ID)
			if err != nil {
				return nil, err
			}
			rec.WorkingHours = hours

			allOff, err := p.svc.ListTimeOff(ctx, o.ID)
			if err != nil {
				return nil, err
			}
			for _, to := range allOff {
				if !to.EndDate.Before(now) {
					rec.TimeOff = append(rec.TimeOff, to)
				}
			}
		}

		records = append(records, rec)
	}
	return records, nil
}

// ExportCSV renders an export as CSV.
func (p *Porter) ExportCSV(ctx context.Context, includeSchedules bool) ([]byte, error) {
	records, err := p.Export(ctx, includeSchedules)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	headers := []string{"Name", "Email", "Phone", "Specialty", "Branch", "Status", "Created At"}
	if includeSchedules {
		headers = append(headers, "Working Hours", "Upcoming Time Off")
	}
	if err := w.Write(headers); err != nil {
		return nil, err
	}

	for _, rec := range records {
		specialty := "General"
		if rec.Specialty != nil && *rec.Specialty != "" {
			specialty = *rec.Specialty
		}
		status := "Inactive"
		if rec.IsActive {
			status = "Active"
		}

		row := []string{
			rec.Name, rec.Email, rec.Phone, specialty,
			rec.BranchName, status, rec.CreatedAt.Format("2006-01-02"),
		}

		if includeSchedules {
			var hours []string
			for _, wh := range rec.WorkingHours {
				hours = append(hours, fmt.Sprintf("%s: %s-%s", dayNames[wh.DayOfWeek], wh.StartTime, wh.EndTime))
			}
			var offs []string
			for _, to := range rec.TimeOff {
				offs = append(offs, fmt.Sprintf("%s - %s",
					to.StartDate.Format("2006-01-02"), to.EndDate.Format("2006-01-02")))
			}
			row = append(row, strings.Join(hours, "; "), strings.Join(offs, "; "))
		}

		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
