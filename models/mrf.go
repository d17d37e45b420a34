package models

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mmdatafocus/projects_backend/config"
	"github.com/mmdatafocus/projects_backend/utils"
	"gorm.io/gorm"
)

const mrfDefaultStatus = "Pending"

type MrfRequest struct {
	ID           int       `gorm:"primary_key" json:"id"`
	FormNo       string    `gorm:"size:100;not null;unique" json:"form_no" binding:"required"`
	ProjectName  string    `gorm:"size:255" json:"project_name"`
	PoNo         string    `gorm:"size:100" json:"po_no"`
	Client       string    `gorm:"size:255" json:"client"`
	SiteLocation string    `gorm:"size:255" json:"site_location"`
	ProjectPhase string    `gorm:"size:100" json:"project_phase"`
	MrfDate      *string   `gorm:"size:20" json:"mrf_date"`
	Status       string    `gorm:"size:50;not null;default:Pending" json:"status"`
	RequestedBy  string    `gorm:"size:100" json:"requested_by"`
	ApprovedBy   string    `gorm:"size:100" json:"approved_by"`
	ReceivedBy   string    `gorm:"size:100" json:"received_by"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
	Items        []MrfItem `gorm:"constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

type MrfItem struct {
	ID           int     `gorm:"primary_key" json:"id"`
	MrfRequestId int     `gorm:"index;not null" json:"mrf_request_id"`
	ItemNo       string  `gorm:"size:50" json:"item_no"`
	PartNo       string  `gorm:"size:100" json:"part_no"`
	Description  string  `gorm:"size:255;not null" json:"description"`
	Uom          string  `gorm:"size:50" json:"uom"`
	QtyRequested float64 `json:"qty_requested"`
	QtyReleased  float64 `json:"qty_released"`
	DateReleased *string `gorm:"size:20" json:"date_released"`
	Remarks      string  `gorm:"size:255" json:"remarks"`
	Status       string  `gorm:"size:50;not null;default:Pending" json:"status"`
}

// Wire shapes mirror the form layout: a header block, the item table and the
// footer signatories.
type MrfHeaderInput struct {
	FormNo       string `json:"form_no" binding:"required"`
	ProjectName  string `json:"project_name"`
	Client       string `json:"client"`
	SiteLocation string `json:"site_location"`
	ProjectPhase string `json:"project_phase"`
	MrfDate      string `json:"mrf_date"`
	Status       string `json:"status"`
}

type MrfRowValues struct {
	ItemNo       string `json:"item_no"`
	PartNo       string `json:"part_no"`
	Description  string `json:"description"`
	Uom          string `json:"uom"`
	QtyRequested string `json:"qty_requested"`
	QtyReleased  string `json:"qty_released"`
	DateReleased string `json:"date_released"`
	Remarks      string `json:"remarks"`
	Status       string `json:"status"`
}

type MrfRowInput struct {
	Values MrfRowValues `json:"values"`
}

type MrfFooterInput struct {
	RequestedBy string `json:"requested_by"`
	ApprovedBy  string `json:"approved_by"`
	ReceivedBy  string `json:"received_by"`
}

type NewMrf struct {
	Header            MrfHeaderInput `json:"header" binding:"required"`
	TableRows         []MrfRowInput  `json:"tableRows"`
	FooterSignatories MrfFooterInput `json:"footerSignatories"`
}

// ParseMrfProjectRef splits a "Project Name - PO# 12345" reference into its
// name and PO number parts; references without the marker keep the whole
// string as the name.
func ParseMrfProjectRef(raw string) (name string, poNo string) {
	name = strings.TrimSpace(raw)
	idx := strings.LastIndex(name, "- PO#")
	if idx < 0 {
		return name, ""
	}
	poNo = strings.TrimSpace(name[idx+len("- PO#"):])
	name = strings.TrimSpace(name[:idx])
	return name, poNo
}

func defaultStatus(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return mrfDefaultStatus
	}
	return s
}

// SaveMrf upserts the header by form number and replaces every line item,
// all in one transaction. Rows without a description are skipped.
func SaveMrf(ctx context.Context, input *NewMrf) (*MrfRequest, error) {
	db := config.GetDB()

	formNo := strings.TrimSpace(input.Header.FormNo)
	if formNo == "" {
		return nil, utils.InvalidInputf("form_no is required")
	}
	projectName, poNo := ParseMrfProjectRef(input.Header.ProjectName)

	var request MrfRequest
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("form_no = ?", formNo).Take(&request).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		request.FormNo = formNo
		request.ProjectName = projectName
		request.PoNo = poNo
		request.Client = input.Header.Client
		request.SiteLocation = input.Header.SiteLocation
		request.ProjectPhase = input.Header.ProjectPhase
		request.MrfDate = normalizeOptionalDate(input.Header.MrfDate)
		request.Status = defaultStatus(input.Header.Status)
		request.RequestedBy = input.FooterSignatories.RequestedBy
		request.ApprovedBy = input.FooterSignatories.ApprovedBy
		request.ReceivedBy = input.FooterSignatories.ReceivedBy
		if err := tx.Save(&request).Error; err != nil {
			return err
		}

		if err := tx.Where("mrf_request_id = ?", request.ID).Delete(&MrfItem{}).Error; err != nil {
			return err
		}
		for _, row := range input.TableRows {
			v := row.Values
			if strings.TrimSpace(v.Description) == "" {
				continue
			}
			item := MrfItem{
				MrfRequestId: request.ID,
				ItemNo:       v.ItemNo,
				PartNo:       v.PartNo,
				Description:  strings.TrimSpace(v.Description),
				Uom:          v.Uom,
				QtyRequested: utils.ParseLooseFloatDefault(v.QtyRequested, 0),
				QtyReleased:  utils.ParseLooseFloatDefault(v.QtyReleased, 0),
				DateReleased: normalizeOptionalDate(v.DateReleased),
				Remarks:      v.Remarks,
				Status:       defaultStatus(v.Status),
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return GetMrfByFormNo(ctx, formNo)
}

func GetMrfByFormNo(ctx context.Context, formNo string) (*MrfRequest, error) {
	db := config.GetDB()

	var request MrfRequest
	if err := db.WithContext(ctx).
		Preload("Items").
		Where("form_no = ?", formNo).
		Take(&request).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &request, nil
}

// MrfItemLogEntry is one item row joined with its form header, for the
// office-wide material log.
type MrfItemLogEntry struct {
	MrfItem
	FormNo      string  `json:"form_no"`
	ProjectName string  `json:"project_name"`
	MrfDate     *string `json:"mrf_date"`
	FormStatus  string  `json:"form_status"`
}

func GetAllMrfItems(ctx context.Context) ([]*MrfItemLogEntry, error) {
	db := config.GetDB()

	var entries []*MrfItemLogEntry
	if err := db.WithContext(ctx).
		Model(&MrfItem{}).
		Select("mrf_items.*, mrf_requests.form_no, mrf_requests.project_name, mrf_requests.mrf_date, mrf_requests.status AS form_status").
		Joins("JOIN mrf_requests ON mrf_requests.id = mrf_items.mrf_request_id").
		Order("mrf_requests.form_no ASC, mrf_items.id ASC").
		Scan(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func GetMrfItem(ctx context.Context, id int) (*MrfItemLogEntry, error) {
	db := config.GetDB()

	var entry MrfItemLogEntry
	if err := db.WithContext(ctx).
		Model(&MrfItem{}).
		Select("mrf_items.*, mrf_requests.form_no, mrf_requests.project_name, mrf_requests.mrf_date, mrf_requests.status AS form_status").
		Joins("JOIN mrf_requests ON mrf_requests.id = mrf_items.mrf_request_id").
		Where("mrf_items.id = ?", id).
		Take(&entry).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &entry, nil
}

type MrfItemUpdate struct {
	QtyReleased  *float64 `json:"qty_released"`
	DateReleased *string  `json:"date_released"`
	Remarks      *string  `json:"remarks"`
	Status       *string  `json:"status"`
}

// UpdateMrfItem applies a partial update to release tracking fields.
func UpdateMrfItem(ctx context.Context, id int, input *MrfItemUpdate) (*MrfItemLogEntry, error) {
	db := config.GetDB()

	item, err := utils.FetchSingleModel[MrfItem](ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.QtyReleased != nil {
		updates["qty_released"] = *input.QtyReleased
	}
	if input.DateReleased != nil {
		updates["date_released"] = normalizeOptionalDate(*input.DateReleased)
	}
	if input.Remarks != nil {
		updates["remarks"] = *input.Remarks
	}
	if input.Status != nil {
		updates["status"] = defaultStatus(*input.Status)
	}
	if len(updates) > 0 {
		if err := db.WithContext(ctx).Model(item).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return GetMrfItem(ctx, id)
}
