package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "MentorLink API",
        "description": "Mentorship matching service: request lifecycle, mentor directory, and live views",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "MentorshipRequests", "description": "Request lifecycle and calendar access"},
        {"name": "Mentors", "description": "Mentor directory"},
        {"name": "Users", "description": "Profiles and calendar linking"},
        {"name": "Notifications", "description": "Per-user notification inbox"},
        {"name": "Export", "description": "Request history downloads"}
    ],
    "paths": {
        "/requests": {
            "post": {
                "tags": ["MentorshipRequests"],
                "summary": "Submit a mentorship request",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/MentorshipRequestForm"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "An active request to this mentor already exists"}
                }
            }
        },
        "/requests/mine": {
            "get": {
                "tags": ["MentorshipRequests"],
                "summary": "List the authenticated mentee's requests",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/requests/mine/watch": {
            "get": {
                "tags": ["MentorshipRequests"],
                "summary": "Stream the mentee's own requests as server-sent events",
                "produces": ["text/event-stream"],
                "responses": {
                    "200": {"description": "SSE stream of request lists"}
                }
            }
        },
        "/requests/feed": {
            "get": {
                "tags": ["MentorshipRequests"],
                "summary": "Stream the mentee's request feed as server-sent events",
                "produces": ["text/event-stream"],
                "responses": {
                    "200": {"description": "SSE stream of feed snapshots"}
                }
            }
        },
        "/requests/outstanding": {
            "get": {
                "tags": ["MentorshipRequests"],
                "summary": "Check for an outstanding request to a mentor",
                "parameters": [
                    {"name": "mentor_id", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/requests/{id}": {
            "get": {
                "tags": ["MentorshipRequests"],
                "summary": "Get a mentorship request",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/requests/{id}/watch": {
            "get": {
                "tags": ["MentorshipRequests"],
                "summary": "Stream a mentorship request as server-sent events",
                "produces": ["text/event-stream"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "SSE stream of request snapshots"}
                }
            }
        },
        "/requests/{id}/approve": {
            "post": {
                "tags": ["MentorshipRequests"],
                "summary": "Approve a pending mentorship request",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Request is not pending"}
                }
            }
        },
        "/requests/{id}/reject": {
            "post": {
                "tags": ["MentorshipRequests"],
                "summary": "Reject a pending mentorship request",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": false, "schema": {"$ref": "#/definitions/RejectRequestForm"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Request is not pending"}
                }
            }
        },
        "/requests/{id}/complete": {
            "post": {
                "tags": ["MentorshipRequests"],
                "summary": "Mark an approved mentorship request as done",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Request is not approved"}
                }
            }
        },
        "/requests/{id}/booking-url": {
            "put": {
                "tags": ["MentorshipRequests"],
                "summary": "Store the booking link for a request",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BookingURLForm"}}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/requests/calendar-access": {
            "get": {
                "tags": ["MentorshipRequests"],
                "summary": "Check whether the mentee may book time with a mentor",
                "parameters": [
                    {"name": "mentor_id", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/requests/calendar-access/watch": {
            "get": {
                "tags": ["MentorshipRequests"],
                "summary": "Stream booking access changes as server-sent events",
                "produces": ["text/event-stream"],
                "parameters": [
                    {"name": "mentor_id", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "SSE stream of access flags"}
                }
            }
        },
        "/mentor/requests": {
            "get": {
                "tags": ["MentorshipRequests"],
                "summary": "List the authenticated mentor's requests, paginated",
                "parameters": [
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "order_by", "in": "query", "type": "string"},
                    {"name": "order_direction", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/mentor/requests/watch": {
            "get": {
                "tags": ["MentorshipRequests"],
                "summary": "Stream the mentor's inbound requests as server-sent events",
                "produces": ["text/event-stream"],
                "responses": {
                    "200": {"description": "SSE stream of request lists"}
                }
            }
        },
        "/mentor/requests/export": {
            "get": {
                "tags": ["Export"],
                "summary": "Download the mentor's request history",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "format", "in": "query", "required": true, "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "Rendered file"}
                }
            }
        },
        "/mentor/requests/export/download": {
            "get": {
                "tags": ["Export"],
                "summary": "Re-download an archived export by signed token",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "token", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Archived file"},
                    "400": {"description": "Token invalid or expired"}
                }
            }
        },
        "/mentors": {
            "get": {
                "tags": ["Mentors"],
                "summary": "List mentors, paginated",
                "parameters": [
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "order_by", "in": "query", "type": "string"},
                    {"name": "order_direction", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/mentors/scroll": {
            "get": {
                "tags": ["Mentors"],
                "summary": "Scroll the mentor directory with an opaque cursor",
                "parameters": [
                    {"name": "cursor", "in": "query", "type": "string"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/mentors/watch": {
            "get": {
                "tags": ["Mentors"],
                "summary": "Stream the mentor directory as server-sent events",
                "produces": ["text/event-stream"],
                "responses": {
                    "200": {"description": "SSE stream of directory snapshots"}
                }
            }
        },
        "/users/me": {
            "get": {
                "tags": ["Users"],
                "summary": "Get the authenticated user's profile",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Users"],
                "summary": "Update the authenticated user's profile",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ProfileUpdateForm"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/users/me/calendar": {
            "post": {
                "tags": ["Users"],
                "summary": "Link the mentor's cal.com username",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LinkCalendarForm"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/users/{id}": {
            "get": {
                "tags": ["Users"],
                "summary": "Get a user's public profile",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/users/{id}/watch": {
            "get": {
                "tags": ["Users"],
                "summary": "Stream a user's profile as server-sent events",
                "produces": ["text/event-stream"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "SSE stream of profile snapshots"}
                }
            }
        },
        "/notifications": {
            "get": {
                "tags": ["Notifications"],
                "summary": "List the authenticated user's notifications, newest first",
                "parameters": [
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "MentorshipRequest": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "mentee_id": {"type": "string"},
                "mentor_id": {"type": "string"},
                "mentee_name": {"type": "string"},
                "mentor_name": {"type": "string"},
                "status": {"type": "string", "enum": ["pending", "approved", "rejected", "done"]},
                "message": {"type": "string"},
                "goals": {"type": "array", "items": {"type": "string"}},
                "experience_level": {"type": "string"},
                "preferred_meeting_frequency": {"type": "string"},
                "rejection_reason": {"type": "string"},
                "calendar_access": {"$ref": "#/definitions/CalendarAccess"},
                "booking_url": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"},
                "approved_at": {"type": "string"},
                "rejected_at": {"type": "string"},
                "completed_at": {"type": "string"}
            }
        },
        "CalendarAccess": {
            "type": "object",
            "properties": {
                "isUnlocked": {"type": "boolean"},
                "unlockedAt": {"type": "string"},
                "lockedAt": {"type": "string"}
            }
        },
        "MentorshipRequestForm": {
            "type": "object",
            "properties": {
                "mentor_id": {"type": "string"},
                "message": {"type": "string"},
                "goals": {"type": "array", "items": {"type": "string"}},
                "experience_level": {"type": "string"},
                "preferred_meeting_frequency": {"type": "string"}
            },
            "required": ["mentor_id", "message"]
        },
        "RejectRequestForm": {
            "type": "object",
            "properties": {
                "reason": {"type": "string"}
            }
        },
        "BookingURLForm": {
            "type": "object",
            "properties": {
                "booking_url": {"type": "string"}
            },
            "required": ["booking_url"]
        },
        "ProfileUpdateForm": {
            "type": "object",
            "properties": {
                "display_name": {"type": "string"},
                "photo_url": {"type": "string"}
            }
        },
        "LinkCalendarForm": {
            "type": "object",
            "properties": {
                "cal_username": {"type": "string"}
            },
            "required": ["cal_username"]
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "limit": {"type": "integer"},
                "total": {"type": "integer"},
                "total_pages": {"type": "integer"},
                "has_next": {"type": "boolean"},
                "has_previous": {"type": "boolean"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
