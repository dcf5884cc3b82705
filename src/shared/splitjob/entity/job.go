package jobentity

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

type Status string

const (
	RequestedStatus  Status = "requested"
	ProcessingStatus Status = "processing"
	DoneStatus       Status = "done"
	DegradedStatus   Status = "degraded"
	ErrorStatus      Status = "error"
)

type Variant string

const (
	FourStemVariant Variant = "4stems"
	MelodyVariant   Variant = "melodies"
	VocalsVariant   Variant = "vocals"
)

var variants = map[string]bool{
	string(FourStemVariant): true,
	string(MelodyVariant):   true,
	string(VocalsVariant):   true,
}

func ValidVariant(variant string) bool {
	return variants[variant]
}

type SplitJob struct {
	ID           string            `json:"id"`
	OriginalURL  string            `json:"original_url"`
	Variant      Variant           `json:"variant"`
	Status       Status            `json:"status"`
	StemURLs     map[string]string `json:"stem_urls,omitempty"`
	MissingStems []string          `json:"missing_stems,omitempty"`
	ErrorMessage string            `json:"error_message,omitempty"`
}

func NewSplitJob(originalURL string, variant Variant) SplitJob {
	return SplitJob{
		ID:          uuid.New().String(),
		OriginalURL: originalURL,
		Variant:     variant,
		Status:      RequestedStatus,
	}
}

func (s SplitJob) ToMap() map[string]any {
	fields := map[string]any{
		"id":            s.ID,
		"original_url":  s.OriginalURL,
		"variant":       string(s.Variant),
		"status":        string(s.Status),
		"error_message": s.ErrorMessage,
	}

	stemURLs := map[string]any{}
	for stem, url := range s.StemURLs {
		stemURLs[stem] = url
	}
	fields["stem_urls"] = stemURLs

	missingStems := []any{}
	for _, stem := range s.MissingStems {
		missingStems = append(missingStems, stem)
	}
	fields["missing_stems"] = missingStems

	return fields
}

func (s *SplitJob) FromMap(fields map[string]any) error {
	newJob := SplitJob{}

	var err error
	if newJob.ID, err = stringField(fields, "id"); err != nil {
		return err
	}

	if newJob.OriginalURL, err = stringField(fields, "original_url"); err != nil {
		return err
	}

	variant, err := stringField(fields, "variant")
	if err != nil {
		return err
	}
	if !ValidVariant(variant) {
		return errors.Newf("Unrecognized job variant %s", variant)
	}
	newJob.Variant = Variant(variant)

	status, err := stringField(fields, "status")
	if err != nil {
		return err
	}
	newJob.Status = Status(status)

	if rawMessage, ok := fields["error_message"]; ok && rawMessage != nil {
		message, ok := rawMessage.(string)
		if !ok {
			return errors.New("Field error_message is not a string")
		}
		newJob.ErrorMessage = message
	}

	if rawStemURLs, ok := fields["stem_urls"]; ok && rawStemURLs != nil {
		stemURLs, ok := rawStemURLs.(map[string]any)
		if !ok {
			return errors.New("Field stem_urls is not a map")
		}

		newJob.StemURLs = map[string]string{}
		for stem, rawURL := range stemURLs {
			url, ok := rawURL.(string)
			if !ok {
				return errors.Newf("Stem URL for %s is not a string", stem)
			}
			newJob.StemURLs[stem] = url
		}
	}

	if rawMissing, ok := fields["missing_stems"]; ok && rawMissing != nil {
		missingStems, ok := rawMissing.([]any)
		if !ok {
			return errors.New("Field missing_stems is not a list")
		}

		for _, rawStem := range missingStems {
			stem, ok := rawStem.(string)
			if !ok {
				return errors.New("A missing stem entry is not a string")
			}
			newJob.MissingStems = append(newJob.MissingStems, stem)
		}
	}

	*s = newJob
	return nil
}

func stringField(fields map[string]any, fieldName string) (string, error) {
	rawValue, ok := fields[fieldName]
	if !ok {
		return "", errors.Newf("Field %s is missing", fieldName)
	}

	value, ok := rawValue.(string)
	if !ok {
		return "", errors.Newf("Field %s is not a string", fieldName)
	}

	return value, nil
}

type Updater func(SplitJob) (SplitJob, error)

type Store interface {
	GetJob(ctx context.Context, id string) (SplitJob, error)
	SetJob(ctx context.Context, job SplitJob) error
	UpdateJob(ctx context.Context, id string, updater Updater) error
}
