package logging

import (
	"testing"
)

// TestUT_FS_05_01_Logging_MethodEntryAndExit_LogsCorrectly tests the LogMethodEntry and LogMethodExit functions.
//
//	Test Case ID    UT-FS-05-01
//	Title           Method Logging
//	Description     Tests the LogMethodEntry and LogMethodExit functions
//	Preconditions   None
//	Steps           1. Call LogMethodEntry
//	                2. Call LogMethodExit with different types of return values
//	                3. Verify the log output contains the expected information
//	Expected Result Logging functions correctly log method entry and exit
//	Notes: This test verifies that the logging functions correctly log method entry and exit.
func TestUT_FS_05_01_Logging_MethodEntryAndExit_LogsCorrectly(t *testing.T) {
	// TODO: Implement the test case
	// 1. Call LogMethodEntry
	// 2. Call LogMethodExit with different types of return values
	// 3. Verify the log output contains the expected information
	t.Skip("Test not implemented yet")
}

// TestUT_FS_06_01_GoroutineID_GetCurrent_ReturnsValidID tests the util.GetCurrentGoroutineID function.
//
//	Test Case ID    UT-FS-06-01
//	Title           Goroutine ID Retrieval
//	Description     Tests the util.GetCurrentGoroutineID function
//	Preconditions   None
//	Steps           1. Call util.GetCurrentGoroutineID
//	                2. Verify the result is not empty and is a number
//	Expected Result util.GetCurrentGoroutineID returns a valid goroutine ID
//	Notes: This test verifies that the util.GetCurrentGoroutineID function returns a valid goroutine ID.
func TestUT_FS_06_01_GoroutineID_GetCurrent_ReturnsValidID(t *testing.T) {
	// TODO: Implement the test case
	// 1. Call util.GetCurrentGoroutineID
	// 2. Verify the result is not empty and is a number
	t.Skip("Test not implemented yet")
}

// TestUT_FS_07_01_Logging_InMethods_LogsCorrectly tests the logging in actual methods.
//
//	Test Case ID    UT-FS-07-01
//	Title           Method Logging in Methods
//	Description     Tests the logging in actual methods
//	Preconditions   None
//	Steps           1. Wrap a test function with WithMethodLogging
//	                2. Call methods with logging
//	                3. Verify the log output contains the expected information
//	Expected Result Methods correctly log their entry and exit
//	Notes: This test verifies that methods correctly log their entry and exit.
func TestUT_FS_07_01_Logging_InMethods_LogsCorrectly(t *testing.T) {
	// TODO: Implement the test case
	// 1. Wrap a test function with WithMethodLogging
	// 2. Call methods with logging
	// 3. Verify the log output contains the expected information
	t.Skip("Test not implemented yet")
}
