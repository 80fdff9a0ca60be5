package model

// NotifTypeDailySummary marks daily-summary rows in sent_notifications.
const NotifTypeDailySummary = "daily_summary"
