package json_directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/rostersync/rostersync/common/gerror"
	"github.com/rostersync/rostersync/common/logger"
	"github.com/rostersync/rostersync/common/models"
	"github.com/rostersync/rostersync/server/services/directory"
)

const JSONDirectoryName = models.SystemName("json")

// enrolmentsKey is the attribute on each external enrolment record that holds the
// user's course membership list.
const enrolmentsKey = "enrolments"

// JSONDirectoryConfig configures the HTTP endpoints and wire-level field names of an
// external directory that serves its user and enrolment lists as JSON documents.
type JSONDirectoryConfig struct {
	// UsersURL is the endpoint serving the complete external user list.
	UsersURL string
	// EnrolmentsURL is the endpoint serving the complete external enrolment list.
	EnrolmentsURL string
	// Username and Password are sent as HTTP basic auth when Username is not empty.
	Username string
	Password string
	// UserField names the attribute on each enrolment record that holds the user's remote key.
	UserField string
	// CourseField names the attribute on each course membership that holds the course's remote key.
	CourseField string
	// RoleField names the attribute on each course membership that holds the optional role key.
	RoleField string
	// GroupField names the attribute on each group entry that holds the group's remote key.
	// A membership's groups may also be given as plain strings.
	GroupField string
	// ConnectTimeout bounds establishing the TCP connection; RequestTimeout bounds the entire request.
	ConnectTimeout time.Duration
	RequestTimeout time.Duration
}

// JSONDirectoryService fetches external directory snapshots over HTTP with retries.
// A fetch either yields a fully decoded document or an error; a payload that fails to
// decode is reported as invalid before any of it is returned.
type JSONDirectoryService struct {
	config          JSONDirectoryConfig
	retryableClient *retryablehttp.Client
	logger.Log
}

func NewJSONDirectoryService(config JSONDirectoryConfig, logFactory logger.LogFactory) *JSONDirectoryService {
	log := logFactory("JSONDirectoryService")

	// Do not share HTTP clients between instances so each can carry its own timeouts.
	httpClient := &http.Client{
		Timeout: config.RequestTimeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{Timeout: config.ConnectTimeout}).DialContext,
		},
	}
	retryableClient := retryablehttp.NewClient()
	retryableClient.RetryWaitMin = time.Millisecond * 100
	retryableClient.RetryWaitMax = time.Second * 5
	retryableClient.RetryMax = 4
	retryableClient.Logger = NewLeveledLogger(log) // use adaptor to get log level support
	retryableClient.HTTPClient = httpClient

	return &JSONDirectoryService{
		config:          config,
		retryableClient: retryableClient,
		Log:             log,
	}
}

func (s *JSONDirectoryService) Name() models.SystemName {
	return JSONDirectoryName
}

// FetchUsers retrieves and decodes the complete external user list.
// Records are returned as opaque attribute maps; nested values are dropped.
func (s *JSONDirectoryService) FetchUsers(ctx context.Context) ([]directory.UserRecord, error) {
	body, err := s.get(ctx, s.config.UsersURL)
	if err != nil {
		return nil, err
	}
	var raw []map[string]interface{}
	err = json.Unmarshal(body, &raw)
	if err != nil {
		return nil, gerror.NewErrInvalidPayload("Invalid external user list", err)
	}
	records := make([]directory.UserRecord, 0, len(raw))
	for _, rawRecord := range raw {
		record := make(directory.UserRecord, len(rawRecord))
		for key, value := range rawRecord {
			str, ok := stringifyValue(value)
			if !ok {
				s.Tracef("Dropping non-scalar attribute %q from external user record", key)
				continue
			}
			record[key] = str
		}
		records = append(records, record)
	}
	return records, nil
}

// FetchEnrolments retrieves and decodes the complete external enrolment list.
// Records missing the configured user key attribute, and memberships missing the
// course key attribute, are skipped with a warning.
func (s *JSONDirectoryService) FetchEnrolments(ctx context.Context) ([]directory.EnrolmentRecord, error) {
	body, err := s.get(ctx, s.config.EnrolmentsURL)
	if err != nil {
		return nil, err
	}
	var raw []map[string]interface{}
	err = json.Unmarshal(body, &raw)
	if err != nil {
		return nil, gerror.NewErrInvalidPayload("Invalid external enrolment list", err)
	}
	records := make([]directory.EnrolmentRecord, 0, len(raw))
	for _, rawRecord := range raw {
		userKey, ok := stringifyValue(rawRecord[s.config.UserField])
		if !ok || userKey == "" {
			s.Warnf("Skipping external enrolment record with no %q attribute", s.config.UserField)
			continue
		}
		record := directory.EnrolmentRecord{UserKey: userKey}
		rawMemberships, _ := rawRecord[enrolmentsKey].([]interface{})
		for _, rawMembership := range rawMemberships {
			membershipMap, ok := rawMembership.(map[string]interface{})
			if !ok {
				s.Warnf("Skipping malformed course membership for external user %q", userKey)
				continue
			}
			courseKey, ok := stringifyValue(membershipMap[s.config.CourseField])
			if !ok || courseKey == "" {
				s.Warnf("Skipping course membership with no %q attribute for external user %q", s.config.CourseField, userKey)
				continue
			}
			roleKey, _ := stringifyValue(membershipMap[s.config.RoleField])
			record.Memberships = append(record.Memberships, directory.CourseMembership{
				CourseKey: courseKey,
				RoleKey:   roleKey,
				Groups:    s.decodeGroups(membershipMap["groups"]),
			})
		}
		records = append(records, record)
	}
	return records, nil
}

// decodeGroups accepts a group list given either as plain strings or as objects
// carrying the configured group key attribute.
func (s *JSONDirectoryService) decodeGroups(rawGroups interface{}) []string {
	rawList, ok := rawGroups.([]interface{})
	if !ok {
		return nil
	}
	var groups []string
	for _, rawGroup := range rawList {
		switch t := rawGroup.(type) {
		case string:
			groups = append(groups, t)
		case map[string]interface{}:
			groupKey, ok := stringifyValue(t[s.config.GroupField])
			if ok && groupKey != "" {
				groups = append(groups, groupKey)
			}
		}
	}
	return groups
}

// get performs an HTTP GET of the specified URL, with retries, and returns the full response body.
func (s *JSONDirectoryService) get(ctx context.Context, url string) ([]byte, error) {
	req, err := retryablehttp.NewRequest("GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request for %q: %w", url, err)
	}
	req = req.WithContext(ctx)
	if s.config.Username != "" {
		req.SetBasicAuth(s.config.Username, s.config.Password)
	}
	req.Header.Set("Accept", "application/json")

	res, err := s.retryableClient.Do(req)
	if err != nil {
		return nil, gerror.NewErrDirectoryFetchFailed(fmt.Sprintf("Unable to fetch %q", url), err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, gerror.NewErrDirectoryFetchFailed(
			fmt.Sprintf("Unexpected status %d fetching %q", res.StatusCode, url), nil)
	}
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, gerror.NewErrDirectoryFetchFailed(fmt.Sprintf("Error reading response from %q", url), err)
	}
	return body, nil
}

func stringifyValue(value interface{}) (string, bool) {
	switch t := value.(type) {
	case string:
		return t, true
	case bool:
		return strconv.FormatBool(t), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	default:
		return "", false
	}
}
