package utils

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"meds4you_back_end/internal/database"
)

type AuditLog struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID     string             `json:"userId" bson:"userId"`
	UserEmail  string             `json:"userEmail" bson:"userEmail"`
	Action     string             `json:"action" bson:"action"`
	Resource   string             `json:"resource" bson:"resource"`
	ResourceID string             `json:"resourceId" bson:"resourceId"`
	OldValue   string             `json:"oldValue,omitempty" bson:"oldValue,omitempty"`
	NewValue   string             `json:"newValue,omitempty" bson:"newValue,omitempty"`
	IP         string             `json:"ip" bson:"ip"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
}

// LogAction enregistre une action admin dans les logs d'audit (asynchrone)
func LogAction(c *gin.Context, action, resource, resourceID string, oldValue, newValue interface{}) {
	entry := AuditLog{
		UserID:     c.GetString("user_id"),
		UserEmail:  c.GetString("email"),
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		IP:         c.ClientIP(),
		CreatedAt:  time.Now(),
	}

	if oldValue != nil {
		if b, err := json.Marshal(oldValue); err == nil {
			entry.OldValue = string(b)
		}
	}
	if newValue != nil {
		if b, err := json.Marshal(newValue); err == nil {
			entry.NewValue = string(b)
		}
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, err := database.AuditLogs().InsertOne(ctx, entry); err != nil {
			log.Printf("❌ Erreur enregistrement log audit: %v", err)
		}
	}()
}
