package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"meds4you_back_end/internal/database"
)

// Préfixes d'objets par usage dans le bucket
const (
	PrefixPrescriptions = "prescriptions"
	PrefixKYC           = "kyc"
)

func bucketName() string {
	bucket := os.Getenv("MINIO_BUCKET")
	if bucket == "" {
		bucket = "meds4you-files"
	}
	return bucket
}

// UploadFile stocke le fichier dans MinIO sous un nom unique et retourne
// le chemin objet (pas une URL publique : le bucket reste privé).
func UploadFile(ctx context.Context, prefix string, file *multipart.FileHeader) (string, error) {
	if database.MinioClient == nil {
		return "", fmt.Errorf("MinIO non initialisé")
	}

	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	// Nom aléatoire : les ordonnances ne doivent pas être devinables
	objectName := fmt.Sprintf("%s/%s%s", prefix, uuid.New().String(), filepath.Ext(file.Filename))

	_, err = database.MinioClient.PutObject(ctx, bucketName(), objectName, f, file.Size,
		minio.PutObjectOptions{ContentType: file.Header.Get("Content-Type")})
	if err != nil {
		return "", err
	}

	return objectName, nil
}

// GenerateSignedURL produit une URL de lecture à durée limitée
func GenerateSignedURL(ctx context.Context, objectPath string, duration time.Duration) (string, error) {
	if database.MinioClient == nil {
		return "", fmt.Errorf("MinIO non initialisé")
	}

	reqParams := make(url.Values)

	// Accepte aussi bien un chemin objet qu'une ancienne URL complète
	key := objectPath
	if idx := strings.Index(key, "/"+bucketName()+"/"); idx >= 0 {
		key = key[idx+len(bucketName())+2:]
	}

	presignedURL, err := database.MinioClient.PresignedGetObject(
		ctx,
		bucketName(),
		key,
		duration,
		reqParams,
	)
	if err != nil {
		return "", err
	}

	return presignedURL.String(), nil
}
