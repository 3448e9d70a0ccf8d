package validation

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	apperrors "salescli/internal/errors"
	"salescli/pkg/contracts/domain"
)

// fieldColumns maps OrderLine fields to their source column names
var fieldColumns = map[string]string{
	"OrderID":         domain.ColumnOrderID,
	"Product":         domain.ColumnProduct,
	"QuantityOrdered": domain.ColumnQuantityOrdered,
	"PriceEach":       domain.ColumnPriceEach,
	"OrderDate":       domain.ColumnOrderDate,
	"PurchaseAddress": domain.ColumnPurchaseAddress,
}

// RecordValidator checks typed order lines against their struct tags
type RecordValidator struct {
	validate *validator.Validate
}

// NewRecordValidator creates a validator that understands decimal values
func NewRecordValidator() *RecordValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	return &RecordValidator{validate: v}
}

// decimalValue exposes a decimal to numeric tags like gte as a float64
func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return nil
}

// Validate returns a row error for the first rule the line breaks, or nil.
// raw supplies the original text for the failing column.
func (v *RecordValidator) Validate(line domain.OrderLine, raw domain.RawOrderLine) error {
	err := v.validate.Struct(line)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperrors.NewValidationError(fmt.Sprintf("validate order line: %v", err))
	}

	fe := verrs[0]
	column, ok := fieldColumns[fe.StructField()]
	if !ok {
		column = fe.StructField()
	}
	value, _ := raw.Field(column)

	return apperrors.NewRowError(
		apperrors.ErrTypeValidation,
		line.Source.File,
		line.Source.Line,
		column,
		value,
		fmt.Errorf("failed %q rule", ruleName(fe)),
	)
}

func ruleName(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}
