package zaptec

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/go-playground/validator"
)

func UnmarshalBody(r io.Reader, o interface{}) error {
	if r == nil {
		return errors.New("body is NIL")
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if err = json.Unmarshal(body, &o); err != nil {
		return err
	}
	return nil
}

func UnmarshalValidateBody(r io.Reader, o interface{}) error {
	err := UnmarshalBody(r, o)
	if err != nil {
		return err
	}
	err = validator.New().Struct(o)
	if err != nil {
		return err
	}
	return nil
}
