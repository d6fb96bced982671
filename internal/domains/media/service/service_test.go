package service_test

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"salon/config"
	"salon/infras/otel/mocks"
	s3Mocks "salon/infras/s3/mocks"
	"salon/internal/domains/media/model"
	"salon/internal/domains/media/model/dto"
	"salon/internal/domains/media/service"
)

func TestMediaService_UploadImage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockS3 := s3Mocks.NewMockS3(ctrl)

	cfg := &config.Config{}
	cfg.External.S3.BucketName = "test-bucket"

	svc := service.New(cfg, mocks.NewOtel(), mockS3)

	tests := []struct {
		name      string
		req       dto.UploadImageRequest
		setupMock func()
		wantErr   bool
	}{
		{
			name: "successful upload",
			req: dto.UploadImageRequest{
				Image: &multipart.FileHeader{Filename: "Haircut.JPG"},
			},
			setupMock: func() {
				mockS3.EXPECT().
					UploadFile(gomock.Any(), "test-bucket", model.Directory, gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _, _ string, _ multipart.File, _ *multipart.FileHeader, fileName string) (string, error) {
						return "https://cdn.example.com/test-bucket/images/" + fileName, nil
					})
			},
			wantErr: false,
		},
		{
			name: "upload error",
			req: dto.UploadImageRequest{
				Image: &multipart.FileHeader{Filename: "haircut.jpg"},
			},
			setupMock: func() {
				mockS3.EXPECT().
					UploadFile(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return("", errors.New("s3 upload error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			result, err := svc.UploadImage(context.Background(), tt.req)

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.True(t, strings.HasSuffix(result.FileName, ".jpg"))
			assert.NotEqual(t, "haircut.jpg", result.FileName)
			assert.Contains(t, result.URL, result.FileName)
		})
	}
}

func TestMediaService_DeleteImages(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockS3 := s3Mocks.NewMockS3(ctrl)

	cfg := &config.Config{}
	cfg.External.S3.BucketName = "test-bucket"

	svc := service.New(cfg, mocks.NewOtel(), mockS3)

	tests := []struct {
		name      string
		req       dto.DeleteImagesRequest
		setupMock func()
		wantErr   bool
	}{
		{
			name: "successful deletion",
			req:  dto.DeleteImagesRequest{ImageURLs: []string{"https://cdn.example.com/test-bucket/images/a.jpg"}},
			setupMock: func() {
				mockS3.EXPECT().GetObjectNameFromURL("test-bucket", gomock.Any()).Return("images/a.jpg")
				mockS3.EXPECT().DeleteFile(gomock.Any(), "test-bucket", "", "images/a.jpg").Return(nil)
			},
		},
		{
			name: "foreign url is skipped",
			req:  dto.DeleteImagesRequest{ImageURLs: []string{"https://picsum.photos/seed/ser-1/600/400"}},
			setupMock: func() {
				mockS3.EXPECT().GetObjectNameFromURL(gomock.Any(), gomock.Any()).Return("")
			},
		},
		{
			name: "delete error",
			req:  dto.DeleteImagesRequest{ImageURLs: []string{"https://cdn.example.com/test-bucket/images/a.jpg"}},
			setupMock: func() {
				mockS3.EXPECT().GetObjectNameFromURL(gomock.Any(), gomock.Any()).Return("images/a.jpg")
				mockS3.EXPECT().DeleteFile(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("s3 delete error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.DeleteImages(context.Background(), tt.req)

			if tt.wantErr {
				assert.ErrorIs(t, err, service.ErrDeleteImages)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
