package models

import (
	"errors"
	"time"
)

type Status string

const (
	StatusDraft    Status = "draft"
	StatusReady    Status = "ready"
	StatusLaunched Status = "launched"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusReady, StatusLaunched:
		return true
	}
	return false
}

const (
	DefaultTitle = "Untitled Offer"
	// WizardTitle 向导新建草稿时使用的标题
	WizardTitle = "New Offer"

	FirstStep = 1
	LastStep  = 8
)

var ErrNotFound = errors.New("offer not found")

// Offer 一个正在构建或已完成的销售方案
// 复合字段以 JSON 文本存储，类型化视图见 Details
type Offer struct {
	ID                 uint      `json:"id" gorm:"primaryKey"`
	Title              string    `json:"title" gorm:"not null"`
	Status             Status    `json:"status" gorm:"not null;default:draft"`
	IdealClient        *string   `json:"idealClient"`
	Limitation         *string   `json:"limitation"`
	SolutionsInventory *string   `json:"solutionsInventory"`
	ThornScorecard     *string   `json:"thornScorecard"`
	OutcomeStatement   *string   `json:"outcomeStatement"`
	Roadmap            *string   `json:"roadmap"`
	DeliveryModel      *string   `json:"deliveryModel"`
	Pricing            *string   `json:"pricing"`
	DocumentContent    *string   `json:"documentContent"`
	DMScript           *string   `json:"dmScript" gorm:"column:dm_script"`
	EmailSequence      *string   `json:"emailSequence"`
	CurrentStep        int       `json:"currentStep" gorm:"not null;default:1"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// ChatMessage 对话记录，目前仅建表
type ChatMessage struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	OfferID   *uint     `json:"offerId" gorm:"index"`
	Offer     *Offer    `json:"-" gorm:"foreignKey:OfferID"`
	Role      Role      `json:"role" gorm:"not null"`
	Content   string    `json:"content" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
}

func StepInRange(step int) bool {
	return step >= FirstStep && step <= LastStep
}

func StringPtr(s string) *string {
	return &s
}
