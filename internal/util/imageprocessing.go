package util

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/ferdian3456/devblog/internal/constant"
	"github.com/ferdian3456/devblog/internal/model"
	"github.com/h2non/bimg"
)

const (
	avatarSize    = 512
	avatarQuality = 75
)

var allowedImageTypes = map[bimg.ImageType]bool{
	bimg.JPEG: true,
	bimg.PNG:  true,
	bimg.GIF:  true,
	bimg.WEBP: true,
}

// ProcessAvatar sniffs the uploaded file and re-encodes it as a square webp.
func ProcessAvatar(fileHeader *multipart.FileHeader, fieldName string) (*bytes.Reader, int64, error) {
	if fileHeader.Size > constant.MAX_FILE_SIZE {
		return nil, 0, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: fmt.Sprintf("Image size exceeded %dMB limit", constant.MAX_FILE_SIZE/(1024*1024)),
			Param:   fieldName,
		}
	}

	src, err := fileHeader.Open()
	if err != nil {
		return nil, 0, err
	}
	defer src.Close()

	raw, err := io.ReadAll(src)
	if err != nil {
		return nil, 0, err
	}

	imageType := bimg.DetermineImageType(raw)
	if !allowedImageTypes[imageType] {
		return nil, 0, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Invalid file type. allowed types: jpeg, png, gif, webp",
			Param:   fieldName,
		}
	}

	output, err := bimg.NewImage(raw).Process(bimg.Options{
		Width:   avatarSize,
		Height:  avatarSize,
		Quality: avatarQuality,
		Type:    bimg.WEBP,
		Crop:    true,
		Force:   true,
	})
	if err != nil {
		return nil, 0, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Failed to process image. File may be corrupted or not a valid image",
			Param:   fieldName,
		}
	}

	return bytes.NewReader(output), int64(len(output)), nil
}
