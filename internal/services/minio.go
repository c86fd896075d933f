package services

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"os"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Uploader : stockage des images produit dans MinIO. Les URLs publiques
// renvoyées sont ensuite persistées dans product_images.image_url.
type Uploader struct {
	client   *minio.Client
	endpoint string
	bucket   string
}

// NewUploader construit le client MinIO depuis l'environnement et s'assure
// que le bucket existe. Renvoie nil si MinIO n'est pas configuré — l'upload
// d'images est alors simplement désactivé.
func NewUploader(ctx context.Context) *Uploader {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		log.Println("⚠️  MinIO non configuré — upload d'images désactivé")
		return nil
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(os.Getenv("MINIO_ACCESS_KEY"), os.Getenv("MINIO_SECRET_KEY"), ""),
		Secure: os.Getenv("MINIO_USE_SSL") == "true",
	})
	if err != nil {
		log.Println("⚠️  Erreur connexion MinIO:", err)
		return nil
	}

	bucket := os.Getenv("MINIO_BUCKET")
	if bucket == "" {
		bucket = "products"
	}
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		log.Println("⚠️  Erreur vérification bucket MinIO:", err)
		return nil
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			log.Println("⚠️  Erreur création bucket MinIO:", err)
			return nil
		}
		log.Println("🪣 Bucket créé :", bucket)
	}

	log.Println("✅ Connecté à MinIO :", endpoint)
	return &Uploader{client: client, endpoint: endpoint, bucket: bucket}
}

// Upload pousse le fichier dans le bucket et renvoie son URL publique. Le
// nom d'objet est préfixé d'un UUID : deux uploads du même fichier ne
// s'écrasent jamais.
func (u *Uploader) Upload(ctx context.Context, file *multipart.FileHeader) (string, error) {
	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	objectName := uuid.NewString() + "-" + file.Filename
	_, err = u.client.PutObject(ctx, u.bucket, objectName, f, file.Size,
		minio.PutObjectOptions{ContentType: file.Header.Get("Content-Type")})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("http://%s/%s/%s", u.endpoint, u.bucket, objectName), nil
}
