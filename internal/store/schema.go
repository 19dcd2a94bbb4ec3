package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const textSize = 2147483647

var (
	storiesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Unique: true},
		{Name: "title", Type: field.TypeString},
		{Name: "description", Type: field.TypeString, Size: textSize, Default: ""},
		{Name: "difficulty", Type: field.TypeString, Default: "beginner"},
		{Name: "category", Type: field.TypeString, Default: ""},
		{Name: "scenes", Type: field.TypeString, Size: textSize, Comment: "JSON array of scene texts"},
		{Name: "quiz", Type: field.TypeString, Size: textSize, Comment: "JSON array of questions"},
		{Name: "is_active", Type: field.TypeBool, Default: true},
		{Name: "created_at", Type: field.TypeInt64},
	}
	storiesTable = &schema.Table{
		Name:       "stories",
		Columns:    storiesColumns,
		PrimaryKey: []*schema.Column{storiesColumns[0]},
		Indexes: []*schema.Index{
			{Name: "story_category", Columns: []*schema.Column{storiesColumns[4]}},
		},
	}

	usersColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Unique: true},
		{Name: "username", Type: field.TypeString, Unique: true},
		{Name: "password_hash", Type: field.TypeString, Default: ""},
		{Name: "created_at", Type: field.TypeInt64},
	}
	usersTable = &schema.Table{
		Name:       "users",
		Columns:    usersColumns,
		PrimaryKey: []*schema.Column{usersColumns[0]},
	}

	sessionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Unique: true},
		{Name: "user_id", Type: field.TypeString},
		{Name: "story_id", Type: field.TypeString},
		{Name: "story_category", Type: field.TypeString, Default: ""},
		{Name: "current_scene_index", Type: field.TypeInt, Default: 0},
		{Name: "scenes_completed", Type: field.TypeInt, Default: 0},
		{Name: "quiz_started", Type: field.TypeBool, Default: false},
		{Name: "quiz_completed", Type: field.TypeBool, Default: false},
		{Name: "quiz_score", Type: field.TypeFloat64, Nullable: true},
		{Name: "total_reading_time", Type: field.TypeInt, Default: 0, Comment: "seconds"},
		{Name: "started_at", Type: field.TypeInt64},
		{Name: "completed_at", Type: field.TypeInt64, Nullable: true},
		{Name: "is_completed", Type: field.TypeBool, Default: false},
		{Name: "feedback", Type: field.TypeString, Size: textSize, Default: ""},
		{Name: "version", Type: field.TypeInt, Default: 0},
	}
	sessionsTable = &schema.Table{
		Name:       "sessions",
		Columns:    sessionsColumns,
		PrimaryKey: []*schema.Column{sessionsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "session_user_id", Columns: []*schema.Column{sessionsColumns[1]}},
			{Name: "session_user_id_story_id", Columns: []*schema.Column{sessionsColumns[1], sessionsColumns[2]}},
		},
	}

	answerRecordsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "session_id", Type: field.TypeString},
		{Name: "question_index", Type: field.TypeInt},
		{Name: "question_text", Type: field.TypeString, Size: textSize},
		{Name: "chosen_index", Type: field.TypeInt},
		{Name: "chosen_text", Type: field.TypeString, Size: textSize},
		{Name: "correct_index", Type: field.TypeInt},
		{Name: "correct_text", Type: field.TypeString, Size: textSize},
		{Name: "is_correct", Type: field.TypeBool},
		{Name: "points", Type: field.TypeInt},
	}
	answerRecordsTable = &schema.Table{
		Name:       "answer_records",
		Columns:    answerRecordsColumns,
		PrimaryKey: []*schema.Column{answerRecordsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "answer_records_sessions_answers",
				Columns:    []*schema.Column{answerRecordsColumns[1]},
				RefColumns: []*schema.Column{sessionsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{Name: "answerrecord_session_id_question_index", Unique: true, Columns: []*schema.Column{answerRecordsColumns[1], answerRecordsColumns[2]}},
		},
	}

	userProgressColumns = []*schema.Column{
		{Name: "user_id", Type: field.TypeString, Unique: true},
		{Name: "total_stories_completed", Type: field.TypeInt, Default: 0},
		{Name: "total_scenes_read", Type: field.TypeInt, Default: 0},
		{Name: "total_sessions", Type: field.TypeInt, Default: 0},
		{Name: "average_quiz_score", Type: field.TypeFloat64, Default: 0},
		{Name: "total_reading_time", Type: field.TypeInt, Default: 0, Comment: "minutes"},
		{Name: "current_streak", Type: field.TypeInt, Default: 0},
		{Name: "longest_streak", Type: field.TypeInt, Default: 0},
		{Name: "favorite_categories", Type: field.TypeString, Size: textSize, Default: "[]"},
		{Name: "category_scores", Type: field.TypeString, Size: textSize, Default: "{}"},
		{Name: "achievements", Type: field.TypeString, Size: textSize, Default: "[]"},
		{Name: "total_points", Type: field.TypeInt, Default: 0},
		{Name: "last_activity_at", Type: field.TypeInt64, Nullable: true},
	}
	userProgressTable = &schema.Table{
		Name:       "user_progress",
		Columns:    userProgressColumns,
		PrimaryKey: []*schema.Column{userProgressColumns[0]},
	}

	dailyActivitiesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "user_id", Type: field.TypeString},
		{Name: "day", Type: field.TypeString, Comment: "YYYY-MM-DD"},
		{Name: "stories_completed", Type: field.TypeInt, Default: 0},
		{Name: "scenes_read", Type: field.TypeInt, Default: 0},
		{Name: "quiz_attempts", Type: field.TypeInt, Default: 0},
		{Name: "seconds_spent", Type: field.TypeInt, Default: 0},
	}
	dailyActivitiesTable = &schema.Table{
		Name:       "daily_activities",
		Columns:    dailyActivitiesColumns,
		PrimaryKey: []*schema.Column{dailyActivitiesColumns[0]},
		Indexes: []*schema.Index{
			{Name: "dailyactivity_user_id_day", Unique: true, Columns: []*schema.Column{dailyActivitiesColumns[1], dailyActivitiesColumns[2]}},
		},
	}

	llmEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "timestamp", Type: field.TypeInt64},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Size: textSize, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: textSize, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: textSize, Default: ""},
	}
	llmEventsTable = &schema.Table{
		Name:       "llm_request_events",
		Columns:    llmEventsColumns,
		PrimaryKey: []*schema.Column{llmEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequestevent_purpose", Columns: []*schema.Column{llmEventsColumns[4]}},
			{Name: "llmrequestevent_timestamp", Columns: []*schema.Column{llmEventsColumns[1]}},
		},
	}

	// tables lists every table in creation order.
	tables = []*schema.Table{
		storiesTable,
		usersTable,
		sessionsTable,
		answerRecordsTable,
		userProgressTable,
		dailyActivitiesTable,
		llmEventsTable,
	}
)

func init() {
	answerRecordsTable.ForeignKeys[0].RefTable = sessionsTable
}
