package boss

import (
	"bytes"
	"encoding/json"
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"strconv"
	"strings"
)

var ErrMissingJobKey = errors.New("job record has no encryptJobId")

const successCode = 0

type SearchResponse struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	ZpData  *SearchPayload `json:"zpData"`
}

// Succeeded reports whether the API accepted the request and returned a result page.
func (r SearchResponse) Succeeded() bool {
	return r.Code == successCode && r.ZpData != nil
}

type SearchPayload struct {
	JobList  []json.RawMessage `json:"jobList"`
	ResCount int               `json:"resCount"`
	HasMore  bool              `json:"hasMore"`
}

func ParseSearchResponse(body []byte) (SearchResponse, error) {
	var response SearchResponse
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&response); err != nil {
		return SearchResponse{}, fmt.Errorf("error decoding JSON response: %w", err)
	}
	return response, nil
}

// Flag is a numeric source field that is sometimes sent as a boolean, a quoted number or a float.
type Flag int

func (f *Flag) UnmarshalJSON(data []byte) error {
	switch s := string(data); s {
	case "true":
		*f = 1
	case "false":
		*f = 0
	default:
		n, err := strconv.ParseFloat(strings.Trim(s, `"`), 64)
		if err != nil {
			return fmt.Errorf("invalid flag value %s", s)
		}
		*f = Flag(n)
	}
	return nil
}

// ID is a key the API normally sends as a string. Bare numbers are kept as their literal text.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid id value %s", data)
	}
	*id = ID(n.String())
	return nil
}

type GeoPoint struct {
	Longitude *float64 `json:"longitude"`
	Latitude  *float64 `json:"latitude"`
}

// JobRecord is a single entry of zpData.jobList. Nil pointers and slices mean the field was
// absent or null in the payload.
type JobRecord struct {
	EncryptJobID     ID           `json:"encryptJobId" validate:"required"`
	JobName          *string      `json:"jobName"`
	SalaryDesc       *string      `json:"salaryDesc"`
	JobExperience    *string      `json:"jobExperience"`
	JobDegree        *string      `json:"jobDegree"`
	CityName         *string      `json:"cityName"`
	City             *json.Number `json:"city"`
	AreaDistrict     *string      `json:"areaDistrict"`
	BusinessDistrict *string      `json:"businessDistrict"`
	Lid              *string      `json:"lid"`
	ItemID           *Flag        `json:"itemId"`
	SecurityID       *string      `json:"securityId"`
	JobType          *Flag        `json:"jobType"`
	ProxyJob         *Flag        `json:"proxyJob"`
	Anonymous        *Flag        `json:"anonymous"`
	Outland          *Flag        `json:"outland"`
	GPS              *GeoPoint    `json:"gps"`
	IsShield         *Flag        `json:"isShield"`
	ShowTopPosition  *Flag        `json:"showTopPosition"`
	AtsDirectPost    *Flag        `json:"atsDirectPost"`
	DaysPerWeekDesc  *string      `json:"daysPerWeekDesc"`
	LeastMonthDesc   *string      `json:"leastMonthDesc"`
	Optimal          *Flag        `json:"optimal"`

	EncryptBossID *string `json:"encryptBossId"`
	BossName      *string `json:"bossName"`
	BossTitle     *string `json:"bossTitle"`
	BossAvatar    *string `json:"bossAvatar"`
	BossCert      *Flag   `json:"bossCert"`
	GoldHunter    *Flag   `json:"goldHunter"`
	BossOnline    *Flag   `json:"bossOnline"`

	EncryptBrandID *string `json:"encryptBrandId"`
	BrandName      *string `json:"brandName"`
	BrandLogo      *string `json:"brandLogo"`
	BrandStageName *string `json:"brandStageName"`
	BrandIndustry  *string `json:"brandIndustry"`
	Industry       *Flag   `json:"industry"`
	BrandScaleName *string `json:"brandScaleName"`

	JobLabels       []string `json:"jobLabels"`
	Skills          []string `json:"skills"`
	IconFlagList    []int    `json:"iconFlagList"`
	WelfareList     []string `json:"welfareList"`
	BeforeNameIcons []string `json:"beforeNameIcons"`
	AfterNameIcons  []string `json:"afterNameIcons"`
}

var validate = validator.New()

func DecodeJobRecord(raw json.RawMessage) (JobRecord, error) {

	var record JobRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return JobRecord{}, fmt.Errorf("error decoding job record: %w", err)
	}

	if err := validate.Struct(record); err != nil {
		return JobRecord{}, errors.Wrap(ErrMissingJobKey, err.Error())
	}

	return record, nil
}
