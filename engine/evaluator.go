// Copyright 2025 tasteful Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package engine

import (
	"fmt"
	"math"

	"github.com/juju/errors"
	"gonum.org/v1/gonum/floats"
)

// Evaluation holds the accuracy of one user's retained predictions. Count
// is the number of (predicted, actual) pairs; when it is zero the metrics
// are undefined.
type Evaluation struct {
	UserId string
	MAE    float64
	RMSE   float64
	Count  int
}

func (e *Evaluation) String() string {
	if e.Count == 0 {
		return fmt.Sprintf("user %s has no rated predictions to evaluate", e.UserId)
	}
	return fmt.Sprintf("MAE: %.3f, RMSE: %.3f over %d ratings", e.MAE, e.RMSE, e.Count)
}

// MAE returns the mean absolute error between predicted and actual ratings.
func MAE(predicted, actual []float64) (float64, error) {
	if err := checkDimensions(predicted, actual); err != nil {
		return 0, errors.Trace(err)
	}
	return floats.Distance(predicted, actual, 1) / float64(len(predicted)), nil
}

// RMSE returns the root mean squared error between predicted and actual
// ratings.
func RMSE(predicted, actual []float64) (float64, error) {
	if err := checkDimensions(predicted, actual); err != nil {
		return 0, errors.Trace(err)
	}
	return floats.Distance(predicted, actual, 2) / math.Sqrt(float64(len(predicted))), nil
}

func checkDimensions(predicted, actual []float64) error {
	if predicted == nil || actual == nil {
		return errors.New("predicted and actual ratings must not be nil")
	}
	if len(predicted) != len(actual) {
		return errors.Errorf("dimension mismatch: %d predicted vs %d actual",
			len(predicted), len(actual))
	}
	if len(predicted) == 0 {
		return errors.New("nothing to evaluate")
	}
	return nil
}
