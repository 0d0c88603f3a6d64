package camunda

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"collegeequity-workers/internal/common/errors"
	"collegeequity-workers/internal/common/logger"
)

// DecodeVariables unmarshals the job variables into v. A malformed payload is a VALIDATION_FAILED business error.
func DecodeVariables(job entities.Job, v interface{}) error {
	if err := json.Unmarshal([]byte(job.GetVariables()), v); err != nil {
		return errors.NewValidationFailedError(fmt.Sprintf("parse input: %v", err))
	}
	return nil
}

// CompleteJob sends output as the job's result variables.
func CompleteJob(ctx context.Context, client worker.JobClient, job entities.Job, output interface{}, log logger.Logger) error {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.GetKey()).
		VariablesFromObject(output)
	if err != nil {
		log.Error("failed to create complete job command", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
		return err
	}

	if _, err := cmd.Send(ctx); err != nil {
		log.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
		return err
	}
	return nil
}

// ErrorCode is the metrics label for err: the StandardError code, or INTERNAL_ERROR.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	return string(errors.Normalize(err).Code)
}
