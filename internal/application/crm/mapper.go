package crm

import (
	"github.com/jhoicas/leadmine-api/internal/application/dto"
	"github.com/jhoicas/leadmine-api/internal/domain/entity"
)

func toBusinessResponse(b *entity.BusinessWithRelations) dto.BusinessResponse {
	out := dto.BusinessResponse{
		ID:                    b.ID,
		BusinessName:          b.BusinessName,
		WebsiteFound:          b.WebsiteFound,
		Description:           b.Description,
		GoogleAddress:         b.GoogleAddress,
		GooglePhone:           b.GooglePhone,
		GoogleRating:          b.GoogleRating,
		GoogleReviewsCount:    b.GoogleReviewsCount,
		GoogleOfficialWebsite: b.GoogleOfficialWebsite,
		GooglePlaceURL:        b.GooglePlaceURL,
		TotalPhonesFound:      b.TotalPhonesFound,
		ScrapedAt:             b.ScrapedAt,
		CreatedAt:             b.CreatedAt,
		UpdatedAt:             b.UpdatedAt,
		Notes:                 toNoteResponses(b.Notes),
	}
	if li := b.LeadInfo; li != nil {
		out.LeadInfo = &dto.LeadInfoResponse{
			ID:                li.ID,
			BusinessID:        li.BusinessID,
			Status:            string(li.Status),
			Priority:          string(li.Priority),
			AssignedTo:        li.AssignedTo,
			EstimatedValue:    li.EstimatedValue,
			ExpectedCloseDate: li.ExpectedCloseDate,
			LastContactDate:   li.LastContactDate,
			NextFollowUpDate:  li.NextFollowUpDate,
			Source:            li.Source,
			CreatedAt:         li.CreatedAt,
			UpdatedAt:         li.UpdatedAt,
		}
	}
	if ed := b.EditableData; ed != nil {
		tags := ed.Tags
		if tags == nil {
			tags = []string{}
		}
		custom := ed.CustomFields
		if custom == nil {
			custom = map[string]any{}
		}
		out.EditableData = &dto.EditableDataResponse{
			ID:             ed.ID,
			BusinessID:     ed.BusinessID,
			PrimaryPhone:   ed.PrimaryPhone,
			PrimaryEmail:   ed.PrimaryEmail,
			ContactPerson:  ed.ContactPerson,
			AlternatePhone: ed.AlternatePhone,
			AlternateEmail: ed.AlternateEmail,
			Notes:          ed.Notes,
			Tags:           tags,
			CustomFields:   custom,
			CreatedAt:      ed.CreatedAt,
			UpdatedAt:      ed.UpdatedAt,
		}
	}
	return out
}

func toNoteResponse(n *entity.Note) dto.NoteResponse {
	return dto.NoteResponse{
		ID:         n.ID,
		BusinessID: n.BusinessID,
		Content:    n.Content,
		Type:       string(n.Type),
		CreatedBy:  n.CreatedBy,
		CreatedAt:  n.CreatedAt,
		UpdatedAt:  n.UpdatedAt,
	}
}

func toNoteResponses(list []*entity.Note) []dto.NoteResponse {
	out := make([]dto.NoteResponse, 0, len(list))
	for _, n := range list {
		out = append(out, toNoteResponse(n))
	}
	return out
}
