package domain

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
)

var (
	ErrOrderItemAmbiguous = errors.New("order must reference exactly one of template or package")
	ErrMetadataInvalid    = errors.New("order metadata does not match order kind")
)

// Keys written to the gateway intent metadata.
const (
	MetaKind          = "kind"
	MetaUserID        = "user_id"
	MetaTemplateID    = "template_id"
	MetaPackageID     = "package_id"
	MetaInquiryID     = "inquiry_id"
	MetaProduct       = "product"
	MetaCustomer      = "customer"
	MetaCustomerEmail = "customer_email"
)

type TemplateOrderMetadata struct {
	TemplateID    int64  `json:"template_id"`
	TemplateTitle string `json:"template_title"`
	UserID        int64  `json:"user_id"`
	UserName      string `json:"user_name"`
	UserEmail     string `json:"user_email"`
}

type PackageOrderMetadata struct {
	InquiryID    int64  `json:"inquiry_id"`
	PackageID    int64  `json:"package_id"`
	ServiceTitle string `json:"service_title"`
	UserID       int64  `json:"user_id"`
	UserName     string `json:"user_name"`
	UserEmail    string `json:"user_email"`
}

// OrderMetadata holds exactly one of the per-kind structures.
type OrderMetadata struct {
	Template *TemplateOrderMetadata `json:"template,omitempty"`
	Package  *PackageOrderMetadata  `json:"package,omitempty"`
}

func (m OrderMetadata) ValidateFor(kind OrderKind) error {
	switch kind {
	case OrderKindTemplate:
		if m.Template == nil || m.Package != nil {
			return ErrMetadataInvalid
		}
		if m.Template.TemplateID <= 0 || m.Template.UserID <= 0 {
			return fmt.Errorf("%w: template_id and user_id are required", ErrMetadataInvalid)
		}
	case OrderKindPackage:
		if m.Package == nil || m.Template != nil {
			return ErrMetadataInvalid
		}
		if m.Package.PackageID <= 0 || m.Package.InquiryID <= 0 || m.Package.UserID <= 0 {
			return fmt.Errorf("%w: package_id, inquiry_id and user_id are required", ErrMetadataInvalid)
		}
	default:
		return ErrMetadataInvalid
	}
	return nil
}

func (m OrderMetadata) Product() string {
	switch {
	case m.Template != nil:
		return m.Template.TemplateTitle
	case m.Package != nil:
		return m.Package.ServiceTitle
	}
	return ""
}

func (m OrderMetadata) Customer() string {
	switch {
	case m.Template != nil:
		return m.Template.UserName
	case m.Package != nil:
		return m.Package.UserName
	}
	return ""
}

// GatewayMetadata flattens the metadata for the payment intent.
func (m OrderMetadata) GatewayMetadata() map[string]string {
	out := map[string]string{}
	switch {
	case m.Template != nil:
		out[MetaKind] = string(OrderKindTemplate)
		out[MetaTemplateID] = strconv.FormatInt(m.Template.TemplateID, 10)
		out[MetaUserID] = strconv.FormatInt(m.Template.UserID, 10)
		out[MetaProduct] = m.Template.TemplateTitle
		out[MetaCustomer] = m.Template.UserName
		out[MetaCustomerEmail] = m.Template.UserEmail
	case m.Package != nil:
		out[MetaKind] = string(OrderKindPackage)
		out[MetaPackageID] = strconv.FormatInt(m.Package.PackageID, 10)
		out[MetaInquiryID] = strconv.FormatInt(m.Package.InquiryID, 10)
		out[MetaUserID] = strconv.FormatInt(m.Package.UserID, 10)
		out[MetaProduct] = m.Package.ServiceTitle
		out[MetaCustomer] = m.Package.UserName
		out[MetaCustomerEmail] = m.Package.UserEmail
	}
	return out
}

func (m OrderMetadata) Value() (driver.Value, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (m *OrderMetadata) Scan(value any) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*m = OrderMetadata{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("order metadata: unsupported source %T", value)
	}
	if len(raw) == 0 {
		*m = OrderMetadata{}
		return nil
	}
	var out OrderMetadata
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("order metadata: %w", err)
	}
	*m = out
	return nil
}
